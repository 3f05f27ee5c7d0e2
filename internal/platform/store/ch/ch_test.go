package ch

import (
	"context"
	"errors"
	"testing"

	"adwarden/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected DSN parse error")
	}
}

func TestOpen_DialError(t *testing.T) {
	testkit.Serial(t)

	var seen *clickhouse.Options
	testkit.Swap(t, &dial, func(o *clickhouse.Options) (driver.Conn, error) {
		seen = o
		return nil, errors.New("boom")
	})

	_, err := Open(context.Background(), Config{URL: "clickhouse://u:p@127.0.0.1:9000/db", ClientTag: "api"})
	if err == nil {
		t.Fatalf("expected dial error")
	}
	if seen == nil {
		t.Fatalf("dial seam not invoked")
	}
	if len(seen.ClientInfo.Products) == 0 || seen.ClientInfo.Products[0].Name != "adwarden" {
		t.Fatalf("client info not applied: %+v", seen.ClientInfo)
	}
}

func TestNilClient_Guards(t *testing.T) {
	t.Parallel()

	var c *CH
	if err := c.Insert(context.Background(), "t", [][]any{{1}}); err == nil {
		t.Fatalf("Insert on nil client should fail")
	}
	if _, err := c.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("Query on nil client should fail")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("Ping on nil client should fail")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil client = %v", err)
	}
}

func TestBuildClientInfo_Roles(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("adwarden", "cli")
	if len(ci.Products) != 4 {
		t.Fatalf("products = %d, want 4", len(ci.Products))
	}
	if ci.Products[1].Name != "role" || ci.Products[1].Version != "cli" {
		t.Fatalf("role product = %+v", ci.Products[1])
	}
}
