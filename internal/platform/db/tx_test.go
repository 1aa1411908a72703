package db

import (
	"context"
	"testing"
)

func TestTxFromContextEmpty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil tx on empty context")
	}
}

func TestRunInTxNilBeginner(t *testing.T) {
	called := false
	err := RunInTx(context.Background(), nil, func(ctx context.Context) error {
		called = true
		if TxFromContext(ctx) != nil {
			t.Errorf("nil beginner must not inject a transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
	if !called {
		t.Errorf("fn not called")
	}
}
