package render

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	labelStyle     = color.New(color.Faint)
	addressStyle   = color.New(color.FgWhite)
	amountStyle    = color.New(color.FgCyan)
	timestampStyle = color.New(color.Faint)
	successStyle   = color.New(color.FgGreen)
	warningStyle   = color.New(color.FgYellow)
	errorStyle     = color.New(color.FgRed)
)

var titleCase = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return errorStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// statusLabel renders a proposal status in its color
func statusLabel(status models.ProposalStatus) string {
	label := titleCase.String(string(status))
	switch status {
	case models.ProposalStatusActive:
		return color.New(color.FgCyan, color.Bold).Sprint(label)
	case models.ProposalStatusApproved:
		return color.New(color.FgGreen, color.Bold).Sprint(label)
	case models.ProposalStatusExecuted:
		return color.New(color.FgGreen).Sprint(label)
	case models.ProposalStatusRejected:
		return color.New(color.FgRed).Sprint(label)
	case models.ProposalStatusExpired:
		return color.New(color.Faint).Sprint(label)
	default:
		return label
	}
}

func choiceLabel(choice models.Choice) string {
	label := titleCase.String(string(choice))
	switch choice {
	case models.ChoiceFor:
		return successStyle.Sprint(label)
	case models.ChoiceAgainst:
		return errorStyle.Sprint(label)
	default:
		return labelStyle.Sprint(label)
	}
}

// formatTokens renders a base-unit amount in whole tokens
func formatTokens(v *big.Int, decimals uint8, symbol string) string {
	s := domain.FormatUnits(v, decimals)
	if symbol != "" {
		s += " " + symbol
	}
	return s
}

// shortAddress abbreviates an address to 0x1234…abcd
func shortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:]
}

// formatDeadline describes a deadline relative to now
func formatDeadline(deadline, now time.Time) string {
	d := deadline.Sub(now)
	if d > 0 {
		return "closes in " + humanDuration(d)
	}
	return "closed " + humanDuration(-d) + " ago"
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// percentOf renders part/whole as a percentage with one decimal
func percentOf(part, whole *big.Int) string {
	if whole == nil || whole.Sign() == 0 {
		return "-"
	}
	scaled := new(big.Int).Mul(part, big.NewInt(1000))
	scaled.Quo(scaled, whole)
	return fmt.Sprintf("%d.%d%%", scaled.Int64()/10, scaled.Int64()%10)
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}
