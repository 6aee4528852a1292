package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/homebox/lanmap/pkg/types"
)

// fakeProber answers for a fixed set of addresses and records probe order.
type fakeProber struct {
	answering map[string]struct{}
	failing   map[string]struct{}
	calls     []string
}

func (p *fakeProber) Probe(_ context.Context, target string, _ time.Duration) ([]types.Device, error) {
	p.calls = append(p.calls, target)
	if _, ok := p.failing[target]; ok {
		return nil, fmt.Errorf("probe of %s failed", target)
	}
	if _, ok := p.answering[target]; ok {
		return []types.Device{{IP: target, MAC: "aa:bb:cc:dd:ee:ff"}}, nil
	}
	return nil, nil
}

func (p *fakeProber) ProbeRange(_ context.Context, _ string, _ time.Duration) ([]types.Device, error) {
	return nil, nil
}

func TestFindReachable(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		answering  []string
		failing    []string
		want       string
		wantErr    bool
		wantCalls  int
	}{
		{
			name:       "primary reachable",
			candidates: []string{"192.168.178.1", "192.168.0.1"},
			answering:  []string{"192.168.178.1"},
			want:       "192.168.178.1",
			wantCalls:  1,
		},
		{
			name:       "falls back in order",
			candidates: []string{"192.168.178.1", "192.168.0.1"},
			answering:  []string{"192.168.0.1"},
			want:       "192.168.0.1",
			wantCalls:  2,
		},
		{
			name:       "none reachable",
			candidates: []string{"192.168.178.1", "192.168.0.1"},
			wantErr:    true,
			wantCalls:  2,
		},
		{
			name:       "probe error counts as unreachable",
			candidates: []string{"192.168.178.1", "192.168.0.1"},
			failing:    []string{"192.168.178.1"},
			answering:  []string{"192.168.0.1"},
			want:       "192.168.0.1",
			wantCalls:  2,
		},
		{
			name:       "no candidates",
			candidates: nil,
			wantErr:    true,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &fakeProber{
				answering: make(map[string]struct{}),
				failing:   make(map[string]struct{}),
			}
			for _, address := range tt.answering {
				prober.answering[address] = struct{}{}
			}
			for _, address := range tt.failing {
				prober.failing[address] = struct{}{}
			}

			got, err := FindReachable(context.Background(), prober, tt.candidates, time.Second)
			if tt.wantErr {
				if !errors.Is(err, ErrNoneReachable) {
					t.Fatalf("FindReachable() error = %v, want ErrNoneReachable", err)
				}
			} else if err != nil {
				t.Fatalf("FindReachable() error = %v", err)
			} else if got != tt.want {
				t.Errorf("FindReachable() = %s, want %s", got, tt.want)
			}
			if len(prober.calls) != tt.wantCalls {
				t.Errorf("probe calls = %v, want %d calls", prober.calls, tt.wantCalls)
			}
		})
	}
}
