package memstore

import (
	"testing"

	"github.com/afterglow3292/portops/internal/store"
	"github.com/afterglow3292/portops/internal/store/storetest"
)

func TestMemStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
