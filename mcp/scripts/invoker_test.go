package scripts

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessInvokerPython(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	ctx := context.Background()
	dir := t.TempDir()
	script := writeScript(t, dir, "mathops.py", `
def add(a, b):
    return {"sum": a + b}

def fail():
    raise ValueError("boom")
`)

	store := NewStore(dir + "/work")
	if err := store.Fetch(ctx, []string{script}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	invoker := NewProcessInvoker()

	callable, err := store.Resolve("mathops.add")
	if err != nil {
		t.Fatal(err)
	}
	out, err := invoker.Invoke(ctx, callable, map[string]interface{}{"a": 2, "b": 3})
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"sum": float64(5)}, out)

	callable, err = store.Resolve("mathops.fail")
	if err != nil {
		t.Fatal(err)
	}
	_, err = invoker.Invoke(ctx, callable, nil)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "mathops.fail")
	}
}

func TestProcessInvokerUnknownInterpreter(t *testing.T) {
	invoker := NewProcessInvoker()
	_, err := invoker.Invoke(context.Background(), &Callable{
		Module: "x", Function: "y", Path: "/tmp/script.rb",
	}, nil)
	assert.Error(t, err)
}
