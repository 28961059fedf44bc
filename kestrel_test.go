package kestrel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/vm"
	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	result, err := Eval(context.Background(), "1 + 1;")
	require.Nil(t, err)
	require.Equal(t, int32(2), result.Interface())
}

func TestEvalFixtures(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"1 + 2;", int32(3)},
		{"1 - 2;", int32(-1)},
		{"3 * 2;", int32(6)},
		{"6 / 2;", int32(3)},
		{"1 < 2;", true},
		{"2 > 1;", true},
		{"if (true) { 10; }; 3333;", int32(3333)},
		{"if (false) { 10; } else { 20; };", int32(20)},
		{"let one = 1; one;", int32(1)},
		{`"kestrel";`, "kestrel"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := Eval(context.Background(), tt.input)
			require.Nil(t, err)
			require.Equal(t, tt.expected, result.Interface())
		})
	}
}

func TestEmptyProgramIsNull(t *testing.T) {
	result, err := Eval(context.Background(), "")
	require.Nil(t, err)
	require.Equal(t, object.Null, result)
}

func TestCompileRun(t *testing.T) {
	ctx := context.Background()
	program, err := Compile("1 + 2;")
	require.Nil(t, err)
	require.NotNil(t, program)

	result, err := Run(ctx, program)
	require.Nil(t, err)
	require.Equal(t, int32(3), result.Interface())
}

// The same Program can be run many times, each on fresh state.
func TestProgramReuse(t *testing.T) {
	program, err := Compile("let x = 1; x + 1;")
	require.Nil(t, err)
	for i := 0; i < 5; i++ {
		result, err := Run(context.Background(), program)
		require.Nil(t, err)
		require.Equal(t, int32(2), result.Interface())
	}
}

func TestConcurrentExecution(t *testing.T) {
	program, err := Compile("let x = 20; x * 2 + 2;")
	require.Nil(t, err)

	var wg sync.WaitGroup
	results := make([]any, 10)
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			result, err := Run(context.Background(), program)
			if err != nil {
				errs[id] = err
				return
			}
			results[id] = result.Interface()
		}(i)
	}
	wg.Wait()
	for i := 0; i < 10; i++ {
		require.Nil(t, errs[i], "goroutine %d had an error", i)
		require.Equal(t, int32(42), results[i], "goroutine %d had wrong result", i)
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("1 +")
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errz.Syntax))

	_, err = Compile("missing;")
	require.True(t, errors.Is(err, errz.UndefinedVariable))

	_, err = Compile("let f = fn(x) { x; };")
	require.True(t, errors.Is(err, errz.UnsupportedConstruct))
}

func TestFilenamePrefix(t *testing.T) {
	_, err := Eval(context.Background(), "1 / 0;", WithFilename("main.ks"))
	require.NotNil(t, err)
	require.Equal(t, "main.ks: divide by zero: cannot divide 1 by zero (ip 0006)", err.Error())
	require.True(t, errors.Is(err, errz.DivideByZero))

	_, err = Compile("let x = 5", WithFilename("main.ks"))
	require.NotNil(t, err)
	require.Equal(t,
		`main.ks: 1:10: syntax error: unexpected end of file while parsing statement (expected ";")`,
		err.Error())
}

func TestResourceLimits(t *testing.T) {
	program, err := Compile("1 + 2 + 3 + 4;")
	require.Nil(t, err)

	_, err = Run(context.Background(), program, WithVMOptions(vm.WithInstructionLimit(3)))
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errz.ResourceExceeded))

	result, err := Run(context.Background(), program, WithVMOptions(vm.WithInstructionLimit(100)))
	require.Nil(t, err)
	require.Equal(t, int32(10), result.Interface())

	_, err = Eval(context.Background(), "1 + 2;", WithVMOptions(vm.WithStackSize(1)))
	require.True(t, errors.Is(err, errz.StackOverflow))
}

func TestEvalEngine(t *testing.T) {
	source := "let add = fn(a, b) { a + b; }; add(40, 2);"
	result, err := Eval(context.Background(), source, WithEngine(EngineEval))
	require.Nil(t, err)
	require.Equal(t, int32(42), result.Interface())

	_, err = Eval(context.Background(), source)
	require.True(t, errors.Is(err, errz.UnsupportedConstruct))

	_, err = Eval(context.Background(), "let f = fn() { f(); }; f();",
		WithEngine(EngineEval), WithMaxCallDepth(20))
	require.True(t, errors.Is(err, errz.ResourceExceeded))
}

// Both engines agree on every program the compiler accepts.
func TestEngineParity(t *testing.T) {
	sources := []string{
		"1 + 2 * 3;",
		"-7 / 2;",
		"(1 < 2) == (2 > 1);",
		"!(1 == 2);",
		`"a" != "b";`,
		"let a = 5; let b = a * a; if (b > 20) { b - 20; } else { 0; };",
		"if (true) { 10; }; 3333;",
		"2147483647 + 1;",
	}
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			fromVM, err := Eval(context.Background(), source, WithEngine(EngineVM))
			require.Nil(t, err)
			fromTree, err := Eval(context.Background(), source, WithEngine(EngineEval))
			require.Nil(t, err)
			require.True(t, fromVM.Equals(fromTree), "vm %s, eval %s", fromVM.Inspect(), fromTree.Inspect())
		})
	}
}

func TestLetResultParity(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"let x = 40;", object.Null},
		{"let x = 40; x;", object.NewInt(40)},
		{"1; let y = 2;", object.Null},
		{"let a = 1; let b = a + 1;", object.Null},
	}
	for _, tt := range tests {
		for _, engine := range []Engine{EngineVM, EngineEval} {
			t.Run(string(engine)+"/"+tt.input, func(t *testing.T) {
				result, err := Eval(context.Background(), tt.input, WithEngine(engine))
				require.Nil(t, err)
				require.True(t, tt.expected.Equals(result),
					"expected %s, got %s", tt.expected.Inspect(), result.Inspect())
			})
		}
	}
}

func TestParseEngine(t *testing.T) {
	engine, err := ParseEngine("VM")
	require.Nil(t, err)
	require.Equal(t, EngineVM, engine)

	engine, err = ParseEngine("")
	require.Nil(t, err)
	require.Equal(t, EngineVM, engine)

	engine, err = ParseEngine("eval")
	require.Nil(t, err)
	require.Equal(t, EngineEval, engine)

	_, err = ParseEngine("jit")
	require.NotNil(t, err)
	require.Equal(t, `unknown engine: "jit" (expected "vm" or "eval")`, err.Error())
}
