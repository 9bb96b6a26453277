package async

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"syreclabs.com/go/faker"
)

func TestMain(m *testing.M) {
	faker.Seed(time.Now().UnixNano())
	goleak.VerifyTestMain(m)
}

func TestVariants(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		state     State[int]
		isIdle    bool
		isLoading bool
		hasValue  bool
		hasError  bool
	}{
		{"idle", Idle[int](), true, false, false, false},
		{"zero value is idle", State[int]{}, true, false, false, false},
		{"loading", Loading[int](), false, true, false, false},
		{"data", Data(42), false, false, true, false},
		{"error", Err[int](boom), false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			if s.IsIdle() != tt.isIdle {
				t.Errorf("IsIdle = %v, want %v", s.IsIdle(), tt.isIdle)
			}
			if s.IsLoading() != tt.isLoading {
				t.Errorf("IsLoading = %v, want %v", s.IsLoading(), tt.isLoading)
			}
			if s.HasValue() != tt.hasValue {
				t.Errorf("HasValue = %v, want %v", s.HasValue(), tt.hasValue)
			}
			if s.HasError() != tt.hasError {
				t.Errorf("HasError = %v, want %v", s.HasError(), tt.hasError)
			}
		})
	}
}

func TestValueAndErr(t *testing.T) {
	boom := errors.New("boom")

	if v, ok := Data(7).Value(); !ok || v != 7 {
		t.Errorf("Data.Value() = %d, %v", v, ok)
	}
	if _, ok := Loading[int]().Value(); ok {
		t.Error("Loading.Value() reported a payload")
	}
	if err := Err[int](boom).Err(); !errors.Is(err, boom) {
		t.Errorf("Err() = %v, want boom", err)
	}
	if err := Data(7).Err(); err != nil {
		t.Errorf("Data.Err() = %v, want nil", err)
	}
}

func TestMatch(t *testing.T) {
	cases := Cases[int, string]{
		Idle:    func() string { return "idle" },
		Loading: func() string { return "loading" },
		Data:    func(v int) string { return "data:" + strconv.Itoa(v) },
		Error:   func(err error) string { return "error:" + err.Error() },
	}

	tests := []struct {
		name  string
		state State[int]
		want  string
	}{
		{"idle", Idle[int](), "idle"},
		{"loading", Loading[int](), "loading"},
		{"data", Data(3), "data:3"},
		{"error", Err[int](errors.New("boom")), "error:boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.state, cases); got != tt.want {
				t.Errorf("Match = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("missing case panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on missing Data case")
			}
		}()
		Match(Data(1), Cases[int, string]{
			Idle:    cases.Idle,
			Loading: cases.Loading,
			Error:   cases.Error,
		})
	})
}

func TestMap(t *testing.T) {
	double := func(v int) int { return v * 2 }

	t.Run("data transforms payload", func(t *testing.T) {
		s := Map(Data(21), double)
		if v, ok := s.Value(); !ok || v != 42 {
			t.Errorf("mapped value = %d, %v", v, ok)
		}
	})

	t.Run("error keeps cause and trace", func(t *testing.T) {
		boom := errors.New("boom")
		trace := []byte("stack")
		s := Map(ErrTrace[int](boom, trace), double)
		if !s.HasError() {
			t.Fatal("expected Error variant")
		}
		if !errors.Is(s.Err(), boom) {
			t.Errorf("cause = %v, want boom", s.Err())
		}
		if string(s.Trace()) != "stack" {
			t.Errorf("trace = %q, want %q", s.Trace(), "stack")
		}
	})

	t.Run("idle and loading pass through", func(t *testing.T) {
		if !Map(Idle[int](), double).IsIdle() {
			t.Error("mapped Idle lost its tag")
		}
		if !Map(Loading[int](), double).IsLoading() {
			t.Error("mapped Loading lost its tag")
		}
	})

	t.Run("type change", func(t *testing.T) {
		msg := faker.Lorem().Word()
		s := Map(Data(msg), func(v string) int { return len(v) })
		if v, _ := s.Value(); v != len(msg) {
			t.Errorf("mapped value = %d, want %d", v, len(msg))
		}
	})
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State[int]
		want  string
	}{
		{Idle[int](), "idle"},
		{Loading[int](), "loading"},
		{Data(5), "data(5)"},
		{Err[int](errors.New("boom")), "error(boom)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("String() = %q, want prefix %q", got, tt.want)
		}
	}
}
