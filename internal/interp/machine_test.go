package interp

import (
	"strings"
	"testing"
)

type captured struct{ lines []string }

func (c *captured) AppendOutput(p []byte) { c.lines = append(c.lines, string(p)) }

// run steps m until it finishes, feeding inputs whenever it blocks.
func run(t *testing.T, src string, inputs ...string) []string {
	t.Helper()
	m := New([]byte(src))
	out := &captured{}
	for steps := 0; steps < 100000; steps++ {
		st, err := m.Step(out)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		switch st {
		case Finished:
			return out.lines
		case AwaitInput:
			if len(inputs) == 0 {
				t.Fatalf("program wants more input than provided")
			}
			m.DeliverInput([]byte(inputs[0]))
			inputs = inputs[1:]
		}
	}
	t.Fatalf("program did not finish")
	return nil
}

func TestHelloTakesOneStepThenFinishes(t *testing.T) {
	m := New([]byte(`print("Hello, world!")`))
	out := &captured{}
	st, err := m.Step(out)
	if err != nil || st != Continue {
		t.Fatalf("first step = %v, %v", st, err)
	}
	if len(out.lines) != 1 || out.lines[0] != "Hello, world!" {
		t.Fatalf("output = %q", out.lines)
	}
	st, err = m.Step(out)
	if err != nil || st != Finished {
		t.Fatalf("second step = %v, %v", st, err)
	}
}

func TestSamplePrograms(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		inputs []string
		want   []string
	}{
		{"nums", "print(1)\nprint(257)", nil, []string{"1", "257"}},
		{"add_one", `x := input("Enter a number")
x := (x + 1)
print(x)`, []string{"41"}, []string{"Enter a number", "42"}},
		{"countdown", `count := input("count")
while (count > 0) {
    count := (count - 1)
}
print("done")
print(count)`, []string{"5"}, []string{"count", "done", "0"}},
		{"average", `sum := 0
count := 0
averaging := true
while averaging {
    num := input("Enter a number:")
    if (num == "quit") {
        averaging := false
    } else {
        sum := (sum + num)
        count := (count + 1)
    }
}
print((sum / count))`, []string{"3", "5", "10", "quit"}, []string{"Enter a number:", "Enter a number:", "Enter a number:", "Enter a number:", "6"}},
		{"float", `x := (1.5 * 2)
print(x)
print(-x)
print(not (x > 2))`, nil, []string{"3", "-3", "false"}},
		{"concat", `s := ("a" + 1)
print(s)`, nil, []string{"a1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := run(t, tc.src, tc.inputs...)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPiApproximation(t *testing.T) {
	src := `sum := 0
i := 0
neg := false
terms := input("Num terms:")
while (i < terms) {
    term := (1.0 / ((2.0 * i) + 1.0))
    if neg {
        term := -term
    }
    sum := (sum + term)
    neg := not neg
    i := (i + 1)
}
print((4 * sum))`
	got := run(t, src, "1000")
	if len(got) != 2 || !strings.HasPrefix(got[1], "3.14") {
		t.Fatalf("output = %q", got)
	}
}

func TestAwaitInputRepeatsUntilDelivered(t *testing.T) {
	m := New([]byte(`x := input("?")
print(x)`))
	out := &captured{}
	for i := 0; i < 3; i++ {
		st, err := m.Step(out)
		if err != nil || st != AwaitInput {
			t.Fatalf("step %d = %v, %v", i, st, err)
		}
	}
	if len(out.lines) != 1 {
		t.Fatalf("prompt printed %d times", len(out.lines))
	}
	if !m.Waiting() {
		t.Fatalf("machine should be waiting")
	}
	if _, ok := m.Var("x"); ok {
		t.Fatalf("x bound before input arrived")
	}
	m.DeliverInput([]byte("hi there"))
	if m.Waiting() {
		t.Fatalf("machine still waiting after delivery")
	}
	if v, ok := m.Var("x"); !ok || v.Kind != KindString || v.Str != "hi there" {
		t.Fatalf("x = %+v, %v", v, ok)
	}
	if _, err := m.Step(out); err != nil {
		t.Fatalf("step: %v", err)
	}
	if out.lines[1] != "hi there" {
		t.Fatalf("printed %q", out.lines[1])
	}
}

func TestCompileErrorsSurfaceOnFirstStep(t *testing.T) {
	for _, src := range []string{
		`print("unterminated)`,
		`x := `,
		`while true { print(1)`,
		`print(input("x"))`,
		`x = 1`,
		`s := "this literal is far longer than thirty characters"`,
	} {
		m := New([]byte(src))
		if _, err := m.Step(&captured{}); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	for _, src := range []string{
		`print(y)`,
		`print((1 / 0))`,
		`if 1 { print(1) }`,
		`print(("a" - 1))`,
	} {
		m := New([]byte(src))
		if _, err := m.Step(&captured{}); err == nil {
			t.Fatalf("expected error for %q", src)
		}
		if _, err := m.Step(&captured{}); err == nil {
			t.Fatalf("fault must persist for %q", src)
		}
	}
}

func TestTokenLimit(t *testing.T) {
	src := strings.Repeat("print(1)\n", MaxTokens/4+1)
	if _, err := New([]byte(src)).Step(&captured{}); err == nil {
		t.Fatalf("expected token limit error")
	}
}

func TestVariableLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i <= MaxVariables; i++ {
		b.WriteString("v")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString(" := 1\n")
	}
	m := New([]byte(b.String()))
	for i := 0; i < MaxVariables; i++ {
		if _, err := m.Step(&captured{}); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if _, err := m.Step(&captured{}); err == nil {
		t.Fatalf("expected variable limit error")
	}
}

func TestParseInputTyping(t *testing.T) {
	cases := map[string]Kind{"12": KindInt, "-3": KindInt, "2.5": KindFloat, "true": KindBool, "quit": KindString}
	for in, want := range cases {
		if got := ParseInput(in).Kind; got != want {
			t.Errorf("ParseInput(%q) = %s, want %s", in, got, want)
		}
	}
}
