package mid_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

func Test_Errors(t *testing.T) {
	log := zap.NewNop().Sugar()
	app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())

	app.Handle(http.MethodGet, "", "/funds", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.FromLedger(database.ErrInsufficientFunds)
	})
	app.Handle(http.MethodGet, "", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	type table struct {
		name   string
		path   string
		status int
		msg    string
	}

	tt := []table{
		{name: "trusted", path: "/funds", status: http.StatusBadRequest, msg: database.ErrInsufficientFunds.Error()},
		{name: "panic", path: "/panic", status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tst.path, nil))

			if w.Code != tst.status {
				t.Fatalf("Should get status %d: got %d", tst.status, w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Should get an error response: %v", err)
			}

			if resp.Error != tst.msg {
				t.Fatalf("Should get message %q: got %q", tst.msg, resp.Error)
			}
		}

		t.Run(tst.name, f)
	}
}
