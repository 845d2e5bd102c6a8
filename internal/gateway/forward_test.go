package gateway

import (
	"testing"

	gateerrors "github.com/ksyq12/certgate/internal/errors"
)

const rulesFixture = ",dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n" +
	"ON,dnat,tcp,443,192.168.10.21,443,web-https\n" +
	"ON,snat,tcp,80,192.168.10.9,80,letsencrypt-http\n"

func TestToggleForwardRule(t *testing.T) {
	t.Run("open enables the rule", func(t *testing.T) {
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", rulesFixture)

		if err := store.ToggleForwardRule("letsencrypt-http", Open); err != nil {
			t.Fatalf("ToggleForwardRule failed: %v", err)
		}

		want := "ON,dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n" +
			"ON,dnat,tcp,443,192.168.10.21,443,web-https\n" +
			"ON,snat,tcp,80,192.168.10.9,80,letsencrypt-http\n"
		if got := readFile(t, rulePath); got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("closed disables the rule", func(t *testing.T) {
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n",
			"ON,dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n")

		if err := store.ToggleForwardRule("letsencrypt-http", Closed); err != nil {
			t.Fatalf("ToggleForwardRule failed: %v", err)
		}

		if got := readFile(t, rulePath); got != ",dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("idempotent close", func(t *testing.T) {
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", rulesFixture)

		if err := store.ToggleForwardRule("letsencrypt-http", Closed); err != nil {
			t.Fatalf("first toggle failed: %v", err)
		}
		first := readFile(t, rulePath)

		if err := store.ToggleForwardRule("letsencrypt-http", Closed); err != nil {
			t.Fatalf("second toggle failed: %v", err)
		}
		if second := readFile(t, rulePath); second != first {
			t.Errorf("repeated toggle changed file: %q then %q", first, second)
		}
	})

	t.Run("same label different kind is ignored", func(t *testing.T) {
		// Two records share the label; only the dnat one may change.
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", rulesFixture)

		if err := store.ToggleForwardRule("letsencrypt-http", Open); err != nil {
			t.Fatalf("ToggleForwardRule failed: %v", err)
		}

		got := readFile(t, rulePath)
		if got[len(got)-len("ON,snat,tcp,80,192.168.10.9,80,letsencrypt-http\n"):] !=
			"ON,snat,tcp,80,192.168.10.9,80,letsencrypt-http\n" {
			t.Errorf("snat record was touched: %q", got)
		}
	})

	t.Run("zero matches leaves file byte-identical", func(t *testing.T) {
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", rulesFixture)
		before := readFile(t, rulePath)

		err := store.ToggleForwardRule("no-such-rule", Open)
		if !gateerrors.Is(err, gateerrors.ErrRuleNotFound) {
			t.Fatalf("expected ErrRuleNotFound, got %v", err)
		}

		if after := readFile(t, rulePath); after != before {
			t.Errorf("file changed on failed toggle")
		}
	})

	t.Run("ambiguous eligible matches are refused", func(t *testing.T) {
		dup := ",dnat,tcp,80,192.168.10.21,80,web\n" +
			",dnat,tcp,8080,192.168.10.22,80,web\n"
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", dup)
		before := readFile(t, rulePath)

		err := store.ToggleForwardRule("web", Open)
		if !gateerrors.Is(err, gateerrors.ErrRuleNotFound) {
			t.Fatalf("expected ErrRuleNotFound, got %v", err)
		}

		if after := readFile(t, rulePath); after != before {
			t.Errorf("file changed on ambiguous toggle")
		}
	})

	t.Run("preserves record shape and ordering", func(t *testing.T) {
		content := "# comment line kept verbatim\n" +
			"\n" +
			",dnat,udp,5353,192.168.10.5,5353,mdns-relay\n" +
			",dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n"
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", content)

		if err := store.ToggleForwardRule("letsencrypt-http", Open); err != nil {
			t.Fatalf("ToggleForwardRule failed: %v", err)
		}

		want := "# comment line kept verbatim\n" +
			"\n" +
			",dnat,udp,5353,192.168.10.5,5353,mdns-relay\n" +
			"ON,dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n"
		if got := readFile(t, rulePath); got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("short records are not eligible", func(t *testing.T) {
		content := "ON,dnat,letsencrypt-http\n" +
			",dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n"
		store, _, _, rulePath := newTestStore(t, "GEO_FILTER=on\n", content)

		if err := store.ToggleForwardRule("letsencrypt-http", Open); err != nil {
			t.Fatalf("ToggleForwardRule failed: %v", err)
		}

		want := "ON,dnat,letsencrypt-http\n" +
			"ON,dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n"
		if got := readFile(t, rulePath); got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})
}

func TestForwardRuleState(t *testing.T) {
	t.Run("enabled rule is open", func(t *testing.T) {
		store, _, _, _ := newTestStore(t, "GEO_FILTER=on\n",
			"ON,dnat,tcp,80,192.168.10.21,80,letsencrypt-http\n")

		state, err := store.ForwardRuleState("letsencrypt-http")
		if err != nil {
			t.Fatalf("ForwardRuleState failed: %v", err)
		}
		if state != Open {
			t.Errorf("state = %v, want Open", state)
		}
	})

	t.Run("disabled rule is closed", func(t *testing.T) {
		store, _, _, _ := newTestStore(t, "GEO_FILTER=on\n", rulesFixture)

		state, err := store.ForwardRuleState("letsencrypt-http")
		if err != nil {
			t.Fatalf("ForwardRuleState failed: %v", err)
		}
		if state != Closed {
			t.Errorf("state = %v, want Closed", state)
		}
	})

	t.Run("missing rule", func(t *testing.T) {
		store, _, _, _ := newTestStore(t, "GEO_FILTER=on\n", rulesFixture)

		_, err := store.ForwardRuleState("missing")
		if !gateerrors.Is(err, gateerrors.ErrRuleNotFound) {
			t.Errorf("expected ErrRuleNotFound, got %v", err)
		}
	})
}
