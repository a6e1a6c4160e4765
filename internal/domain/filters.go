package domain

import (
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalFilter defines filtering options for proposals
type ProposalFilter struct {
	// Status matches the current (time-evaluated) status, not the stored one
	Status   models.ProposalStatus
	Proposer *common.Address
	// Search fuzzy-matches the description
	Search string
}
