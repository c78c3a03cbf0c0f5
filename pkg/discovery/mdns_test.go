package discovery

import (
	"reflect"
	"testing"
)

func TestNewEndpoint(t *testing.T) {
	ep := newEndpoint(
		"todos-api",
		"workstation.local.",
		8080,
		[]string{"path=/api/todos", "ver=2", "tls=1"},
		[]string{"192.168.1.10", "fe80::1"},
	)
	if ep == nil {
		t.Fatal("newEndpoint() = nil, want endpoint")
	}
	if ep.Instance != "todos-api" {
		t.Errorf("Instance = %q, want %q", ep.Instance, "todos-api")
	}
	if ep.Host != "workstation.local." {
		t.Errorf("Host = %q, want %q", ep.Host, "workstation.local.")
	}
	if ep.Port != 8080 {
		t.Errorf("Port = %d, want %d", ep.Port, 8080)
	}
	if ep.Path != "/api/todos" {
		t.Errorf("Path = %q, want %q", ep.Path, "/api/todos")
	}
	if ep.Version != "2" {
		t.Errorf("Version = %q, want %q", ep.Version, "2")
	}
	if !ep.TLS {
		t.Error("TLS = false, want true")
	}
	wantAddrs := []string{"192.168.1.10", "fe80::1"}
	if !reflect.DeepEqual(ep.Addresses, wantAddrs) {
		t.Errorf("Addresses = %v, want %v", ep.Addresses, wantAddrs)
	}

	if got := ep.BaseURL(); got != "https://workstation.local:8080" {
		t.Errorf("BaseURL() = %q, want %q", got, "https://workstation.local:8080")
	}
}

func TestNewEndpointRejectsBadTXT(t *testing.T) {
	// no path record makes the announcement unusable
	if ep := newEndpoint("todos-api", "host.local.", 8080, []string{"ver=2"}, nil); ep != nil {
		t.Errorf("newEndpoint() = %v, want nil for unusable TXT records", ep)
	}
}

func TestMergeAddresses(t *testing.T) {
	existing := []string{"192.168.1.10", "fe80::1"}
	merged := mergeAddresses(existing, []string{"fe80::1", "10.0.0.5"})

	want := []string{"192.168.1.10", "fe80::1", "10.0.0.5"}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("mergeAddresses() = %v, want %v", merged, want)
	}
}

func TestRemoveAddresses(t *testing.T) {
	remaining := removeAddresses([]string{"192.168.1.10", "10.0.0.5"}, []string{"192.168.1.10"})

	want := []string{"10.0.0.5"}
	if !reflect.DeepEqual(remaining, want) {
		t.Errorf("removeAddresses() = %v, want %v", remaining, want)
	}

	if got := removeAddresses([]string{"10.0.0.5"}, nil); !reflect.DeepEqual(got, []string{"10.0.0.5"}) {
		t.Errorf("removeAddresses() with nothing gone = %v, want unchanged", got)
	}
}
