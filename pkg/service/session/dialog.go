package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mochapay/mocha/pkg/country"
	domain "github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/money"
	"github.com/mochapay/mocha/pkg/selector"
)

var (
	// ErrUnknownDialog is returned for a dialog name other than country or currency.
	ErrUnknownDialog = errors.New("unknown dialog")
	// ErrUnknownDialogAction is returned for an unsupported dialog action.
	ErrUnknownDialogAction = errors.New("unknown dialog action")
)

// Dialog names a picker of the transfer form.
type Dialog string

const (
	DialogCountry  Dialog = "country"
	DialogCurrency Dialog = "currency"
)

// DialogAction is a user interaction with a picker.
type DialogAction string

const (
	ActionOpen    DialogAction = "open"
	ActionToggle  DialogAction = "toggle"
	ActionClose   DialogAction = "close"
	ActionDismiss DialogAction = "dismiss"
	ActionSearch  DialogAction = "search"
	ActionSelect  DialogAction = "select"
)

// Dialog applies action to one of the form's pickers. value is the search
// term for search and the dial code or currency code for select.
func (s *Service) Dialog(
	ctx context.Context,
	id string,
	dialog Dialog,
	action DialogAction,
	value string,
) (*domain.Session, error) {
	return s.updateForm(ctx, id, func(f *domain.Form) error {
		switch dialog {
		case DialogCountry:
			selected, err := applyDialog(&f.CountryDialog, action, value, s.countries.Lookup)
			if err != nil || !selected {
				return err
			}
			f.Draft.SetCountry(f.CountryDialog.Selected)
			return nil
		case DialogCurrency:
			selected, err := applyDialog(&f.CurrencyDialog, action, value, parseSourceCode)
			if err != nil || !selected {
				return err
			}
			return s.applyCurrency(f, string(f.CurrencyDialog.Selected))
		default:
			return fmt.Errorf("%w: %q", ErrUnknownDialog, dialog)
		}
	})
}

// CountryOptions returns the countries the country picker currently lists.
func (s *Service) CountryOptions(sess *domain.Session) country.List {
	return s.countries.Filter(sess.Form.CountryDialog.Term)
}

// applyDialog runs action on p and reports whether an item was selected.
func applyDialog[T comparable](
	p *selector.Popover[T],
	action DialogAction,
	value string,
	parse func(string) (T, error),
) (bool, error) {
	switch action {
	case ActionOpen:
		p.Open()
	case ActionToggle:
		p.Toggle()
	case ActionClose:
		p.Close()
	case ActionDismiss:
		p.DismissOutside()
	case ActionSearch:
		return false, p.Search(value)
	case ActionSelect:
		item, err := parse(value)
		if err != nil {
			return false, err
		}
		if _, err := p.Select(item); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownDialogAction, action)
	}
	return false, nil
}

func parseSourceCode(v string) (money.Code, error) {
	return moneyCode(v), nil
}

func moneyCode(v string) money.Code {
	return money.Code(strings.ToUpper(strings.TrimSpace(v)))
}
