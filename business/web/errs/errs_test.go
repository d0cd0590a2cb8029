package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

func Test_FromLedger(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
	}

	tt := []table{
		{name: "funds", err: fmt.Errorf("available 5: %w", database.ErrInsufficientFunds), status: http.StatusBadRequest},
		{name: "password", err: database.ErrInvalidPassword, status: http.StatusUnauthorized},
		{name: "mining", err: database.ErrAlreadyMining, status: http.StatusConflict},
		{name: "empty", err: database.ErrEmptyChain, status: http.StatusPreconditionFailed},
		{name: "peer", err: &database.PeerError{Host: "host1", Err: errors.New("refused")}, status: http.StatusBadGateway},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			te := errs.GetTrusted(errs.FromLedger(tst.err))
			if te == nil {
				t.Fatalf("Should get a trusted error.")
			}

			if te.Status != tst.status {
				t.Fatalf("Should map to status %d: got %d", tst.status, te.Status)
			}

			if !errors.Is(te, tst.err) {
				t.Fatalf("Should keep the original error.")
			}
		}

		t.Run(tst.name, f)
	}

	other := errors.New("disk on fire")
	if err := errs.FromLedger(other); errs.IsTrusted(err) {
		t.Fatalf("Should not trust an unknown error.")
	}

	if errs.FromLedger(nil) != nil {
		t.Fatalf("Should pass through a nil error.")
	}
}
