package fuzztests

import (
	"context"
	"testing"
	"time"

	"verdant/internal/lang/js"
	jsonlang "verdant/internal/lang/json"
	"verdant/internal/syntax"
	"verdant/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzJSParse(f *testing.F) {
	addJSSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		for _, src := range []js.FileSource{js.ModuleFile(), js.ScriptFile()} {
			parsed := js.Parse(text, src, js.ParserOptions{}, nil)
			if err := testkit.CheckTreeInvariants(parsed.Root, text, parsed.Diagnostics); err != nil {
				t.Fatalf("%s: %v\ninput: %q", src.ModuleKind, err, truncateForLog(input, 200))
			}
		}
	})
}

func FuzzJSONParse(f *testing.F) {
	addJSONSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		cache := syntax.NewNodeCache()
		for _, opts := range []jsonlang.ParseOptions{{}, {AllowComments: true, AllowTrailingCommas: true}} {
			parsed := jsonlang.Parse(text, opts, cache)
			if err := testkit.CheckTreeInvariants(parsed.Root, text, parsed.Diagnostics); err != nil {
				t.Fatalf("%+v: %v\ninput: %q", opts, err, truncateForLog(input, 200))
			}
		}
	})
}

// FuzzParserNoHang tests that neither parser hangs on any input.
// Error recovery that stops consuming tokens shows up as a timeout.
func FuzzParserNoHang(f *testing.F) {
	addJSSeeds(f)
	addJSONSeeds(f)

	// Кейсы, на которых восстановление после ошибок может зациклиться
	f.Add([]byte("let = = = ;"))
	f.Add([]byte("function ( { [ ,"))
	f.Add([]byte("for (;;"))
	f.Add([]byte("{ \"a\" \"b\" \"c\" }"))
	f.Add([]byte("[,,,,]"))
	f.Add([]byte("a ? : b"))
	f.Add([]byte("export export export"))

	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			js.Parse(text, js.ModuleFile(), js.ParserOptions{AllowReturnOutsideFunction: true}, nil)
			jsonlang.Parse(text, jsonlang.ParseOptions{AllowComments: true, AllowTrailingCommas: true}, nil)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
