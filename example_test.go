package kestrel_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/cloudcmds/kestrel"
	"github.com/cloudcmds/kestrel/errz"
)

func ExampleEval() {
	result, err := kestrel.Eval(context.Background(), "let x = 6; x * 7;")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Inspect())
	// Output: 42
}

func ExampleRun() {
	ctx := context.Background()

	// Compile once, then run the same program from several goroutines.
	// Each run gets its own stack and globals.
	program, err := kestrel.Compile("let a = 20; let b = 22; if (a < b) { a + b; } else { 0; };")
	if err != nil {
		log.Fatal(err)
	}

	results := make([]string, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			result, err := kestrel.Run(ctx, program)
			if err != nil {
				results[idx] = fmt.Sprintf("error: %v", err)
				return
			}
			results[idx] = result.Inspect()
		}(i)
	}
	wg.Wait()
	fmt.Println(results)
	// Output: [42 42 42 42]
}

func ExampleSession() {
	ctx := context.Background()
	session := kestrel.NewSession()

	for _, line := range []string{
		"let total = 1;",
		"let total = total + 41;",
		"total / 0;",
		"total;",
	} {
		result, err := session.Eval(ctx, line)
		if errors.Is(err, errz.DivideByZero) {
			fmt.Println("error:", err)
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result.Inspect())
	}
	// Output:
	// null
	// null
	// error: divide by zero: cannot divide 42 by zero (ip 0006)
	// 42
}

func ExampleSession_Eval_evaluator() {
	session := kestrel.NewSession(kestrel.WithEngine(kestrel.EngineEval))
	result, err := session.Eval(context.Background(),
		"let fib = fn(n) { if (n < 2) { n; } else { fib(n - 1) + fib(n - 2); }; }; fib(20);")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Inspect())
	// Output: 6765
}
