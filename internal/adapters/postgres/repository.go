package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// LedgerRepository persists the governance ledger in PostgreSQL. Big
// integers are stored as NUMERIC(78,0) and exchanged as decimal text.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a repository over an open pool
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{pool: db.Pool}
}

const proposalColumns = `
	id, proposer, description, created_at, voting_deadline,
	required_quorum_bps, member_count_at_creation, quorum_threshold::text,
	status, treasury_amount::text, treasury_recipient,
	votes_for::text, votes_against::text, votes_abstain::text, voters,
	finalized_at, executed_at,
	pending_transfer_id, pending_transfer_payload, pending_transfer_prepared_at`

// Load reads the whole ledger from one consistent snapshot
func (r *LedgerRepository) Load(ctx context.Context) (*governance.Snapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	return loadSnapshot(ctx, tx)
}

func loadSnapshot(ctx context.Context, tx pgx.Tx) (*governance.Snapshot, error) {
	snap := &governance.Snapshot{}

	rows, err := tx.Query(ctx, `SELECT address, joined_at FROM members ORDER BY joined_at, address`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	for rows.Next() {
		var (
			addr string
			m    models.Member
		)
		if err := rows.Scan(&addr, &m.JoinedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Address = common.HexToAddress(addr)
		m.JoinedAt = m.JoinedAt.UTC()
		snap.Members = append(snap.Members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx, `SELECT `+proposalColumns+` FROM proposals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		snap.Proposals = append(snap.Proposals, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx, `SELECT proposal_id, voter, choice, weight::text, cast_at FROM votes ORDER BY cast_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			v                     models.Vote
			voter, choice, weight string
		)
		if err := rows.Scan(&v.ProposalID, &voter, &choice, &weight, &v.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.Voter = common.HexToAddress(voter)
		v.Choice = models.Choice(choice)
		v.CastAt = v.CastAt.UTC()
		if v.Weight, err = parseNumeric(weight); err != nil {
			return nil, err
		}
		snap.Votes = append(snap.Votes, &v)
	}
	return snap, rows.Err()
}

// SaveMember inserts a member
func (r *LedgerRepository) SaveMember(ctx context.Context, member models.Member) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO members (address, joined_at) VALUES ($1, $2)`,
		member.Address.Hex(), member.JoinedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyMember
	}
	return err
}

// CreateProposal inserts a proposal. A taken id means another process
// created a proposal first.
func (r *LedgerRepository) CreateProposal(ctx context.Context, p *models.Proposal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO proposals (
			id, proposer, description, created_at, voting_deadline,
			required_quorum_bps, member_count_at_creation, quorum_threshold,
			status, treasury_amount, treasury_recipient
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10::numeric, $11)`,
		p.ID, p.Proposer.Hex(), p.Description, p.CreatedAt, p.VotingDeadline,
		p.RequiredQuorumBasisPoints, p.MemberCountAtCreation, p.QuorumThreshold.String(),
		string(p.Status), p.TreasuryAmount.String(), p.TreasuryRecipient.Hex())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: proposal %d already exists", domain.ErrLedgerConflict, p.ID)
	}
	return err
}

// RecordVote adds the ballot's weight to the stored tally and inserts the
// ballot in one transaction, returning the tally as committed. The update
// takes the proposal row lock, so concurrent ballots add up instead of
// overwriting each other. The (proposal_id, voter) primary key rejects a
// second ballot.
func (r *LedgerRepository) RecordVote(ctx context.Context, vote *models.Vote) (models.Tally, error) {
	var tally models.Tally
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var forV, against, abst string
		err := tx.QueryRow(ctx, `
			UPDATE proposals SET
				votes_for     = votes_for     + CASE WHEN $2::text = 'for'     THEN $3::numeric ELSE 0 END,
				votes_against = votes_against + CASE WHEN $2::text = 'against' THEN $3::numeric ELSE 0 END,
				votes_abstain = votes_abstain + CASE WHEN $2::text = 'abstain' THEN $3::numeric ELSE 0 END,
				voters        = voters + 1
			WHERE id = $1 AND status = 'active'
			RETURNING votes_for::text, votes_against::text, votes_abstain::text, voters`,
			vote.ProposalID, string(vote.Choice), vote.Weight.String(),
		).Scan(&forV, &against, &abst, &tally.Voters)
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := r.status(ctx, tx, vote.ProposalID); err != nil {
				return err
			}
			return domain.ErrVotingClosed
		}
		if err != nil {
			return fmt.Errorf("failed to update tally: %w", err)
		}
		if tally.For, err = parseNumeric(forV); err != nil {
			return err
		}
		if tally.Against, err = parseNumeric(against); err != nil {
			return err
		}
		if tally.Abstain, err = parseNumeric(abst); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO votes (proposal_id, voter, choice, weight, cast_at)
			VALUES ($1, $2, $3, $4::numeric, $5)`,
			vote.ProposalID, vote.Voter.Hex(), string(vote.Choice), vote.Weight.String(), vote.CastAt)
		if isUniqueViolation(err) {
			return domain.ErrDoubleVote
		}
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Tally{}, err
	}
	return tally, nil
}

// AttachTransfer records the payout prepared for an approved proposal
func (r *LedgerRepository) AttachTransfer(ctx context.Context, id uint64, transfer models.PendingTransfer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE proposals SET
			pending_transfer_id = $2, pending_transfer_payload = $3, pending_transfer_prepared_at = $4
		WHERE id = $1 AND status <> 'executed' AND pending_transfer_id IS NULL`,
		id, transfer.ID, transfer.Payload, transfer.PreparedAt)
	if err != nil {
		return fmt.Errorf("failed to record transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missed(ctx, id)
	}
	return nil
}

// DetachTransfer forgets a payout that failed. It is a no-op when the
// proposal no longer carries transferID.
func (r *LedgerRepository) DetachTransfer(ctx context.Context, id uint64, transferID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE proposals SET
			pending_transfer_id = NULL, pending_transfer_payload = NULL, pending_transfer_prepared_at = NULL
		WHERE id = $1 AND pending_transfer_id = $2`,
		id, transferID)
	if err != nil {
		return fmt.Errorf("failed to discard transfer: %w", err)
	}
	return nil
}

// ExecuteProposal stores the executed record once transferID has settled
func (r *LedgerRepository) ExecuteProposal(ctx context.Context, p *models.Proposal, transferID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE proposals SET
			status = $2, finalized_at = $3, executed_at = $4,
			pending_transfer_id = NULL, pending_transfer_payload = NULL, pending_transfer_prepared_at = NULL
		WHERE id = $1 AND status <> 'executed' AND pending_transfer_id = $5`,
		p.ID, string(p.Status), p.FinalizedAt, p.ExecutedAt, transferID)
	if err != nil {
		return fmt.Errorf("failed to mark proposal executed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missed(ctx, p.ID)
	}
	return nil
}

// FinalizeProposal stores the closed status of a proposal. It only applies
// while the stored proposal is active with the voter count the outcome was
// computed from.
func (r *LedgerRepository) FinalizeProposal(ctx context.Context, p *models.Proposal) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE proposals SET status = $2, finalized_at = $3
		WHERE id = $1 AND status = 'active' AND voters = $4`,
		p.ID, string(p.Status), p.FinalizedAt, p.Tally.Voters)
	if err != nil {
		return fmt.Errorf("failed to finalize proposal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missed(ctx, p.ID)
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *LedgerRepository) status(ctx context.Context, q querier, id uint64) (models.ProposalStatus, error) {
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM proposals WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrProposalNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read proposal %d: %w", id, err)
	}
	return models.ProposalStatus(status), nil
}

// missed explains a conditional update on proposal id that matched no row
func (r *LedgerRepository) missed(ctx context.Context, id uint64) error {
	status, err := r.status(ctx, r.pool, id)
	if err != nil {
		return err
	}
	if status == models.ProposalStatusExecuted {
		return domain.ErrAlreadyExecuted
	}
	return fmt.Errorf("%w: proposal %d changed since it was read", domain.ErrLedgerConflict, id)
}

func (r *LedgerRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanProposal(row pgx.Row) (*models.Proposal, error) {
	var (
		p                                   models.Proposal
		proposer, recipient, status         string
		quorum, amount, forV, against, abst string
		finalizedAt, executedAt, preparedAt *time.Time
		transferID, payload                 *string
	)
	err := row.Scan(
		&p.ID, &proposer, &p.Description, &p.CreatedAt, &p.VotingDeadline,
		&p.RequiredQuorumBasisPoints, &p.MemberCountAtCreation, &quorum,
		&status, &amount, &recipient,
		&forV, &against, &abst, &p.Tally.Voters,
		&finalizedAt, &executedAt,
		&transferID, &payload, &preparedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan proposal: %w", err)
	}

	p.Proposer = common.HexToAddress(proposer)
	p.TreasuryRecipient = common.HexToAddress(recipient)
	p.Status = models.ProposalStatus(status)
	p.CreatedAt = p.CreatedAt.UTC()
	p.VotingDeadline = p.VotingDeadline.UTC()
	p.FinalizedAt = utcPtr(finalizedAt)
	p.ExecutedAt = utcPtr(executedAt)
	if transferID != nil {
		p.PendingTransfer = &models.PendingTransfer{TransferRef: models.TransferRef{ID: *transferID}}
		if payload != nil {
			p.PendingTransfer.Payload = *payload
		}
		if preparedAt != nil {
			p.PendingTransfer.PreparedAt = preparedAt.UTC()
		}
	}

	for _, f := range []struct {
		dst **big.Int
		src string
	}{
		{&p.QuorumThreshold, quorum},
		{&p.TreasuryAmount, amount},
		{&p.Tally.For, forV},
		{&p.Tally.Against, against},
		{&p.Tally.Abstain, abst},
	} {
		v, err := parseNumeric(f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	return &p, nil
}

func parseNumeric(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric value %q", s)
	}
	return v, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Ensure LedgerRepository implements LedgerStore
var _ governance.LedgerStore = (*LedgerRepository)(nil)
