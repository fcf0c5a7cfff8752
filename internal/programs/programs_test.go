package programs

import (
	"errors"
	"strings"
	"testing"

	"github.com/jask/quadpane/internal/interp"
	"github.com/jask/quadpane/internal/storage"
)

type sink struct{ lines []string }

func (s *sink) AppendOutput(p []byte) { s.lines = append(s.lines, string(p)) }

func TestSeedProgramsRun(t *testing.T) {
	progs, err := Seed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(progs) == 0 || progs[0].Name != "hello" {
		t.Fatalf("unexpected manifest: %+v", progs)
	}
	want := map[string]string{
		"hello":     "Hello, world!",
		"greet":     "name?|hi ann",
		"countdown": "count|done|0",
		"average":   "Enter a number:|Enter a number:|Enter a number:|3",
	}
	inputs := map[string][]string{
		"greet":     {"ann"},
		"add_one":   {"1"},
		"countdown": {"3"},
		"average":   {"2", "4", "quit"},
		"pi":        {"50"},
	}
	for _, p := range progs {
		t.Run(p.Name, func(t *testing.T) {
			m := interp.New([]byte(p.Source))
			out := &sink{}
			feed := inputs[p.Name]
			for steps := 0; ; steps++ {
				if steps > 10000 {
					t.Fatalf("did not finish")
				}
				st, err := m.Step(out)
				if err != nil {
					t.Fatalf("step: %v", err)
				}
				if st == interp.Finished {
					break
				}
				if st == interp.AwaitInput {
					if len(feed) == 0 {
						t.Fatalf("ran out of input")
					}
					m.DeliverInput([]byte(feed[0]))
					feed = feed[1:]
				}
			}
			if len(out.lines) == 0 {
				t.Fatalf("no output")
			}
			if w, ok := want[p.Name]; ok && strings.Join(out.lines, "|") != w {
				t.Fatalf("output = %q, want %q", out.lines, w)
			}
		})
	}
}

func TestParseRejectsBadNames(t *testing.T) {
	_, err := Parse([]byte(`[[program]]
name = "much_too_long"
source = "print(1)"
`))
	if !errors.Is(err, storage.ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}

	_, err = Parse([]byte(strings.Repeat("[[program]]\nname = \"a\"\nsource = \"\"\n", 2)))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if _, err := Parse([]byte("[[program]\n")); err == nil {
		t.Fatalf("expected decode error")
	}
}
