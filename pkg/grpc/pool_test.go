package grpc

import (
	"context"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestGetConnectionReusesTarget(t *testing.T) {
	p := NewPool()
	defer p.Close()

	var wg sync.WaitGroup
	conns := make([]*grpc.ClientConn, 16)
	for i := range conns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := p.GetConnection("passthrough:///ledger:50051")
			if err != nil {
				t.Error(err)
				return
			}
			conns[i] = conn
		}(i)
	}
	wg.Wait()
	for _, c := range conns[1:] {
		if c != conns[0] {
			t.Fatal("expected a single shared connection per target")
		}
	}

	other, err := p.GetConnection("passthrough:///other:50051")
	if err != nil {
		t.Fatal(err)
	}
	if other == conns[0] {
		t.Fatal("different targets must not share a connection")
	}
}

func TestGetConnectionReplacesClosed(t *testing.T) {
	p := NewPool()
	defer p.Close()

	first, err := p.GetConnection("passthrough:///ledger:50051")
	if err != nil {
		t.Fatal(err)
	}
	first.Close()
	second, err := p.GetConnection("passthrough:///ledger:50051")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("closed connection was returned again")
	}
}

func TestCallerInterceptor(t *testing.T) {
	var got []string
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		got = md.Get("x-caller-id")
		return nil
	}
	interceptor := CallerInterceptor("x-caller-id", "ledgerctl")
	if err := interceptor(context.Background(), "/m", nil, nil, nil, invoker); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "ledgerctl" {
		t.Fatalf("metadata=%v", got)
	}
}
