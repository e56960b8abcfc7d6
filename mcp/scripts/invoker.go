package scripts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Invoker executes a script callable with keyword-style arguments and returns
// its decoded result.
type Invoker interface {
	Invoke(ctx context.Context, callable *Callable, args map[string]interface{}) (interface{}, error)
}

// pythonHarness loads the materialised script and calls the requested
// function with JSON arguments read from stdin, writing the JSON result to
// stdout.
const pythonHarness = `import json, runpy, sys
ns = runpy.run_path(sys.argv[1])
args = json.load(sys.stdin)
result = ns[sys.argv[2]](**args)
json.dump(result, sys.stdout)
`

// nodeHarness mirrors pythonHarness for javascript modules. The callable
// receives the argument object as its single parameter.
const nodeHarness = `const fs = require('fs');
const path = require('path');
const mod = require(path.resolve(process.argv[1]));
const args = JSON.parse(fs.readFileSync(0, 'utf8') || '{}');
Promise.resolve(mod[process.argv[2]](args)).then(result => {
  process.stdout.write(JSON.stringify(result === undefined ? null : result));
}).catch(err => { console.error(String(err)); process.exit(1); });
`

// ProcessInvoker runs callables by spawning the script's interpreter. It is
// the default Invoker.
type ProcessInvoker struct {
	// Python is the python interpreter binary, "python3" when empty.
	Python string
	// Node is the node interpreter binary, "node" when empty.
	Node string
}

// NewProcessInvoker returns a ProcessInvoker with default interpreters.
func NewProcessInvoker() *ProcessInvoker {
	return &ProcessInvoker{}
}

// Invoke runs the callable and decodes its stdout as JSON, falling back to
// the raw text when the output is not valid JSON.
func (p *ProcessInvoker) Invoke(ctx context.Context, callable *Callable, args map[string]interface{}) (interface{}, error) {
	if callable == nil || callable.Path == "" {
		return nil, fmt.Errorf("callable has no materialised script")
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	input, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}

	cmd, err := p.command(ctx, callable)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("invoke %s: %s", callable.ImportPath(), detail)
	}

	out := stdout.Bytes()
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}
	var result interface{}
	if err := json.Unmarshal(out, &result); err != nil {
		return strings.TrimSpace(string(out)), nil
	}
	return result, nil
}

func (p *ProcessInvoker) command(ctx context.Context, callable *Callable) (*exec.Cmd, error) {
	switch filepath.Ext(callable.Path) {
	case ".py":
		python := p.Python
		if python == "" {
			python = "python3"
		}
		return exec.CommandContext(ctx, python, "-c", pythonHarness, callable.Path, callable.Function), nil
	case ".js", ".cjs":
		node := p.Node
		if node == "" {
			node = "node"
		}
		return exec.CommandContext(ctx, node, "-e", nodeHarness, callable.Path, callable.Function), nil
	}
	return nil, fmt.Errorf("no interpreter for script %q", callable.Path)
}
