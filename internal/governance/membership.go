package governance

import (
	"sort"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// MembershipRegistry tracks recognised voters. It is not safe for concurrent
// use on its own; the owning Registry serialises access.
type MembershipRegistry struct {
	members  map[common.Address]models.Member
	expected uint64
}

// NewMembershipRegistry creates an empty registry. expected is the number of
// parents the association expects, used as a floor for MemberCount.
func NewMembershipRegistry(expected uint64) *MembershipRegistry {
	return &MembershipRegistry{
		members:  make(map[common.Address]models.Member),
		expected: expected,
	}
}

// Register adds addr as a member joined at the given time
func (m *MembershipRegistry) Register(addr common.Address, joinedAt time.Time) (models.Member, error) {
	if _, exists := m.members[addr]; exists {
		return models.Member{}, domain.ErrAlreadyMember
	}
	member := models.Member{Address: addr, JoinedAt: joinedAt}
	m.members[addr] = member
	return member, nil
}

// IsMember reports whether addr is registered
func (m *MembershipRegistry) IsMember(addr common.Address) bool {
	_, ok := m.members[addr]
	return ok
}

// Member returns the member record for addr
func (m *MembershipRegistry) Member(addr common.Address) (models.Member, bool) {
	member, ok := m.members[addr]
	return member, ok
}

// Members returns all members ordered by join time, then address.
func (m *MembershipRegistry) Members() []models.Member {
	result := make([]models.Member, 0, len(m.members))
	for _, member := range m.members {
		result = append(result, member)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].JoinedAt.Equal(result[j].JoinedAt) {
			return result[i].JoinedAt.Before(result[j].JoinedAt)
		}
		return result[i].Address.Cmp(result[j].Address) < 0
	})
	return result
}

// Registered is the number of registered members
func (m *MembershipRegistry) Registered() int {
	return len(m.members)
}

// MemberCount is the quorum denominator: the registered members, or the
// expected parent count when fewer parents have registered so far.
func (m *MembershipRegistry) MemberCount() uint64 {
	if n := uint64(len(m.members)); n > m.expected {
		return n
	}
	return m.expected
}
