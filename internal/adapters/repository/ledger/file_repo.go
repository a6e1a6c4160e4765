package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cooperadora-escolar/coop/internal/adapters/fs"
	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
)

const (
	LedgerFile    = "ledger.json"
	LedgerVersion = "1"
)

// ledgerFile is the on-disk layout of the governance ledger
type ledgerFile struct {
	Version   string                  `json:"version"`
	Members   []models.Member         `json:"members"`
	Proposals []*models.Proposal      `json:"proposals"`
	Votes     map[string]*models.Vote `json:"votes"`
}

// ledgerState is the decoded ledger, valid only while the file lock is held.
type ledgerState struct {
	members   []models.Member
	proposals map[uint64]*models.Proposal
	votes     map[models.VoteKey]*models.Vote
}

// FileRepository stores the governance ledger in a single JSON file shared by
// every coop process on the machine. Each operation takes an advisory lock on
// <path>.lock, reads the file, and for writes renames a new copy into place
// before releasing the lock. Nothing is cached between operations.
type FileRepository struct {
	path string
	lock *fs.FileLock
}

// NewFileRepository opens the ledger under cfg.DataDir
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	return Open(filepath.Join(cfg.DataDir, LedgerFile))
}

// Open opens or creates the ledger file at path and checks that it parses
func Open(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	r := &FileRepository{
		path: path,
		lock: fs.NewFileLock(path),
	}
	if err := r.view(context.Background(), func(*ledgerState) error { return nil }); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return r, nil
}

// Path returns the ledger file location
func (r *FileRepository) Path() string {
	return r.path
}

// view runs fn against the current file contents under a shared lock.
func (r *FileRepository) view(ctx context.Context, fn func(*ledgerState) error) error {
	return r.lock.Shared(ctx, func() error {
		state, err := r.read()
		if err != nil {
			return err
		}
		return fn(state)
	})
}

// update runs fn against the current file contents under an exclusive lock
// and writes the result back if fn succeeds.
func (r *FileRepository) update(ctx context.Context, fn func(*ledgerState) error) error {
	return r.lock.Exclusive(ctx, func() error {
		state, err := r.read()
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
		if err := r.write(state); err != nil {
			return fmt.Errorf("failed to save ledger: %w", err)
		}
		return nil
	})
}

func (r *FileRepository) read() (*ledgerState, error) {
	state := &ledgerState{
		proposals: make(map[uint64]*models.Proposal),
		votes:     make(map[models.VoteKey]*models.Vote),
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, err
	}

	var f ledgerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}

	state.members = f.Members
	for _, p := range f.Proposals {
		state.proposals[p.ID] = p
	}
	for _, v := range f.Votes {
		state.votes[v.Key()] = v
	}
	return state, nil
}

// write stores the whole ledger in a temp file and renames it into place
func (r *FileRepository) write(state *ledgerState) error {
	f := ledgerFile{
		Version:   LedgerVersion,
		Members:   state.members,
		Proposals: make([]*models.Proposal, 0, len(state.proposals)),
		Votes:     make(map[string]*models.Vote, len(state.votes)),
	}
	for _, p := range state.proposals {
		f.Proposals = append(f.Proposals, p)
	}
	slices.SortFunc(f.Proposals, func(a, b *models.Proposal) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for key, v := range state.votes {
		f.Votes[key.String()] = v
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	return fs.WriteFileAtomic(r.path, data)
}

// Load returns the persisted ledger as currently on disk
func (r *FileRepository) Load(ctx context.Context) (*governance.Snapshot, error) {
	snap := &governance.Snapshot{}
	err := r.view(ctx, func(s *ledgerState) error {
		snap.Members = s.members
		for _, p := range s.proposals {
			snap.Proposals = append(snap.Proposals, p)
		}
		for _, v := range s.votes {
			snap.Votes = append(snap.Votes, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveMember appends a member
func (r *FileRepository) SaveMember(ctx context.Context, member models.Member) error {
	return r.update(ctx, func(s *ledgerState) error {
		for _, m := range s.members {
			if m.Address == member.Address {
				return domain.ErrAlreadyMember
			}
		}
		s.members = append(s.members, member)
		return nil
	})
}

// CreateProposal stores a new proposal. A taken id means another process
// created a proposal first.
func (r *FileRepository) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return r.update(ctx, func(s *ledgerState) error {
		if _, exists := s.proposals[proposal.ID]; exists {
			return fmt.Errorf("%w: proposal %d already exists", domain.ErrLedgerConflict, proposal.ID)
		}
		s.proposals[proposal.ID] = proposal.Clone()
		return nil
	})
}

// RecordVote stores the ballot, adds its weight to the stored tally and
// returns the tally as written.
func (r *FileRepository) RecordVote(ctx context.Context, vote *models.Vote) (models.Tally, error) {
	var tally models.Tally
	err := r.update(ctx, func(s *ledgerState) error {
		key := vote.Key()
		if _, exists := s.votes[key]; exists {
			return domain.ErrDoubleVote
		}
		p, ok := s.proposals[vote.ProposalID]
		if !ok {
			return domain.ErrProposalNotFound
		}
		if p.Status != models.ProposalStatusActive {
			return domain.ErrVotingClosed
		}

		clone := *vote
		s.votes[key] = &clone
		if p.Tally.For == nil {
			p.Tally = models.NewTally()
		}
		p.Tally.Add(vote.Choice, vote.Weight)
		tally = p.Tally.Clone()
		return nil
	})
	return tally, err
}

// AttachTransfer records the payout prepared for an approved proposal
func (r *FileRepository) AttachTransfer(ctx context.Context, id uint64, transfer models.PendingTransfer) error {
	return r.update(ctx, func(s *ledgerState) error {
		p, ok := s.proposals[id]
		switch {
		case !ok:
			return domain.ErrProposalNotFound
		case p.Status == models.ProposalStatusExecuted:
			return domain.ErrAlreadyExecuted
		case p.PendingTransfer != nil:
			return fmt.Errorf("%w: proposal %d already has transfer %s", domain.ErrLedgerConflict, id, p.PendingTransfer.ID)
		}
		p.PendingTransfer = &transfer
		return nil
	})
}

// DetachTransfer forgets a payout that failed. It is a no-op when the
// proposal no longer carries transferID.
func (r *FileRepository) DetachTransfer(ctx context.Context, id uint64, transferID string) error {
	return r.update(ctx, func(s *ledgerState) error {
		p, ok := s.proposals[id]
		if !ok {
			return domain.ErrProposalNotFound
		}
		if p.PendingTransfer != nil && p.PendingTransfer.ID == transferID {
			p.PendingTransfer = nil
		}
		return nil
	})
}

// ExecuteProposal stores the executed record once transferID has settled
func (r *FileRepository) ExecuteProposal(ctx context.Context, proposal *models.Proposal, transferID string) error {
	return r.update(ctx, func(s *ledgerState) error {
		stored, ok := s.proposals[proposal.ID]
		switch {
		case !ok:
			return domain.ErrProposalNotFound
		case stored.Status == models.ProposalStatusExecuted:
			return domain.ErrAlreadyExecuted
		case stored.PendingTransfer == nil || stored.PendingTransfer.ID != transferID:
			return fmt.Errorf("%w: proposal %d is not paying out through %s", domain.ErrLedgerConflict, proposal.ID, transferID)
		}
		record := proposal.Clone()
		record.PendingTransfer = nil
		s.proposals[proposal.ID] = record
		return nil
	})
}

// FinalizeProposal stores the closed record of a proposal. The stored
// proposal must still be active with the tally the outcome was computed from.
func (r *FileRepository) FinalizeProposal(ctx context.Context, proposal *models.Proposal) error {
	return r.update(ctx, func(s *ledgerState) error {
		stored, ok := s.proposals[proposal.ID]
		if !ok {
			return domain.ErrProposalNotFound
		}
		if stored.Status != models.ProposalStatusActive || stored.Tally.Voters != proposal.Tally.Voters {
			return fmt.Errorf("%w: proposal %d changed since it was read", domain.ErrLedgerConflict, proposal.ID)
		}
		s.proposals[proposal.ID] = proposal.Clone()
		return nil
	})
}

// Ensure FileRepository implements LedgerStore
var _ governance.LedgerStore = (*FileRepository)(nil)
