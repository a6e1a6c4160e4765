package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"proposals": len(s.gov.ListProposals(domain.ProposalFilter{})),
	})
}

func (s *Server) association(c *gin.Context) {
	c.JSON(http.StatusOK, toAssociationResponse(s.gov.Genesis(), len(s.gov.ListMembers()), s.gov.MemberCount()))
}

func (s *Server) decimals() uint8 {
	return s.gov.Genesis().Token.Decimals
}

// GET /api/v1/proposals?status=active&proposer=0x...
func (s *Server) listProposals(c *gin.Context) {
	var filter domain.ProposalFilter

	if status := c.Query("status"); status != "" {
		filter.Status = models.ProposalStatus(strings.ToLower(status))
		valid := []models.ProposalStatus{
			models.ProposalStatusActive,
			models.ProposalStatusApproved,
			models.ProposalStatusRejected,
			models.ProposalStatusExecuted,
			models.ProposalStatusExpired,
		}
		if !lo.Contains(valid, filter.Status) {
			badRequest(c, "unknown status "+status)
			return
		}
	}
	if proposer := c.Query("proposer"); proposer != "" {
		if !common.IsHexAddress(proposer) {
			badRequest(c, domain.ErrInvalidAddress.Error())
			return
		}
		addr := common.HexToAddress(proposer)
		filter.Proposer = &addr
	}

	decimals := s.decimals()
	proposals := s.gov.ListProposals(filter)
	c.JSON(http.StatusOK, lo.Map(proposals, func(p *models.Proposal, _ int) proposalResponse {
		return toProposalResponse(p, decimals)
	}))
}

func (s *Server) getProposal(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	p, err := s.gov.GetProposal(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProposalResponse(p, s.decimals()))
}

func (s *Server) listVotes(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	votes, err := s.gov.Votes(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toVoteResponses(votes, s.decimals()))
}

func (s *Server) executeProposal(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	p, err := s.gov.Execute(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProposalResponse(p, s.decimals()))
}

func (s *Server) finalizeProposal(c *gin.Context) {
	id, ok := proposalID(c)
	if !ok {
		return
	}
	p, err := s.gov.Finalize(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProposalResponse(p, s.decimals()))
}

func (s *Server) listMembers(c *gin.Context) {
	c.JSON(http.StatusOK, lo.Map(s.gov.ListMembers(), func(m models.Member, _ int) memberResponse {
		return toMemberResponse(m)
	}))
}

func (s *Server) getMember(c *gin.Context) {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		badRequest(c, domain.ErrInvalidAddress.Error())
		return
	}
	m, ok := s.gov.Member(common.HexToAddress(raw))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: domain.ErrNotAMember.Error(), Category: domain.CategoryValidation})
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(m))
}

func proposalID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid proposal id "+c.Param("id"))
		return 0, false
	}
	return id, true
}
