package ledger_test

import (
	"testing"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/ledger/storetest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ledger.Store {
		return ledger.NewMemoryStore()
	})
}
