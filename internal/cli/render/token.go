package render

import (
	"fmt"
	"io"

	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// TokenRenderer renders voting token operations
type TokenRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewTokenRenderer creates a new token renderer
func NewTokenRenderer(out io.Writer, format config.OutputFormat) *TokenRenderer {
	return &TokenRenderer{out: out, format: format}
}

type tokenView struct {
	Name        string     `json:"name" yaml:"name"`
	Symbol      string     `json:"symbol" yaml:"symbol"`
	Decimals    uint8      `json:"decimals" yaml:"decimals"`
	TotalSupply amountView `json:"totalSupply" yaml:"totalSupply"`
	Owner       string     `json:"owner" yaml:"owner"`
	Address     string     `json:"address,omitempty" yaml:"address,omitempty"`
	Backend     string     `json:"backend" yaml:"backend"`
}

// Render renders the result of a token operation
func (r *TokenRenderer) Render(result *usecase.ManageTokenResult) error {
	info := result.Info
	if isStructured(r.format) {
		view := struct {
			Operation string      `json:"operation" yaml:"operation"`
			Token     tokenView   `json:"token" yaml:"token"`
			Account   string      `json:"account,omitempty" yaml:"account,omitempty"`
			Amount    *amountView `json:"amount,omitempty" yaml:"amount,omitempty"`
			Balance   *amountView `json:"balance,omitempty" yaml:"balance,omitempty"`
		}{
			Operation: result.Operation,
			Token: tokenView{
				Name:        info.Name,
				Symbol:      info.Symbol,
				Decimals:    info.Decimals,
				TotalSupply: newAmountView(info.TotalSupply, info.Decimals),
				Owner:       info.Owner.Hex(),
				Backend:     info.Backend,
			},
		}
		if info.Address != (common.Address{}) {
			view.Token.Address = info.Address.Hex()
		}
		if result.Account != (common.Address{}) {
			view.Account = result.Account.Hex()
		}
		if result.Amount != nil {
			amount := newAmountView(result.Amount, info.Decimals)
			view.Amount = &amount
		}
		if result.Balance != nil {
			balance := newAmountView(result.Balance, info.Decimals)
			view.Balance = &balance
		}
		return writeStructured(r.out, r.format, view)
	}

	switch result.Operation {
	case usecase.TokenInfo:
		r.renderInfo(result)
		return nil
	case usecase.TokenBalance:
		fmt.Fprintf(r.out, "%s  %s\n", addressStyle.Sprint(result.Account.Hex()),
			amountStyle.Sprint(formatTokens(result.Balance, info.Decimals, info.Symbol)))
		return nil
	case usecase.TokenTransfer:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Transferred %s to %s",
			formatTokens(result.Amount, info.Decimals, info.Symbol), result.Account.Hex())))
	case usecase.TokenMint:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Minted %s to %s",
			formatTokens(result.Amount, info.Decimals, info.Symbol), result.Account.Hex())))
	case usecase.TokenBurn:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Burned %s",
			formatTokens(result.Amount, info.Decimals, info.Symbol))))
	}
	fmt.Fprintf(r.out, "Balance of %s: %s\n", shortAddress(result.Account),
		formatTokens(result.Balance, info.Decimals, info.Symbol))
	fmt.Fprintf(r.out, "Total supply: %s\n", formatTokens(info.TotalSupply, info.Decimals, info.Symbol))
	return nil
}

func (r *TokenRenderer) renderInfo(result *usecase.ManageTokenResult) {
	info := result.Info
	headerStyle.Fprintf(r.out, "%s (%s)\n", info.Name, info.Symbol)
	field := func(label, value string) {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", label+":"), value)
	}
	field("Backend", info.Backend)
	if info.Address != (common.Address{}) {
		field("Contract", info.Address.Hex())
	}
	field("Decimals", fmt.Sprintf("%d", info.Decimals))
	field("Total supply", amountStyle.Sprint(formatTokens(info.TotalSupply, info.Decimals, info.Symbol)))
	field("Owner", info.Owner.Hex())
}
