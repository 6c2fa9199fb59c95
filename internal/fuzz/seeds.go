package fuzztests

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var jsSeeds = []string{
	"",
	"let a = 1;\n",
	"const { a, b: [c = 1, ...d] } = obj;\n",
	"if (a == b) { debugger; } else return;\n",
	"function f(a, b = 2, ...rest) { return a ?? b?.c; }\n",
	"x = a ? b : c => c * 2;\n",
	"label: for (let i = 0; i < 10; i++) { continue label; }\n",
	"import def, { x as y } from \"mod\";\nexport const z = `a${y}b`;\n",
	"/re[/]x/gi.test(s) / 2;\n",
	"// biome-ignore lint/suspicious/noDebugger: test\ndebugger;\n",
	"a\n++b\n",
	"var \\u0061bc = 0x1F + 1e-3 + .5 + 0b11 + 1_000n;\n",
	"({ get a() {}, set a(v) {}, [k]: 1, ...o });\n",
	"switch (x) { case 1: break; default: }\n",
	"try { throw new Error(); } catch { } finally { }\n",
	"async function* g() { yield* await x; }\n",
	"`unterminated ${",
	"/* unterminated",
	"\"\\",
	"((((((((((((((((((((a))))))))))))))))))))",
}

var jsonSeeds = []string{
	"",
	"{}",
	"[]",
	"{\"a\": 1, \"b\": [true, false, null], \"c\": {\"d\": -1.5e10}}\n",
	"{ \"a\": 1 \"b\": 2 }",
	"[1, 2, ]",
	"{\"a\": 1,}",
	"// comment\n{ /* inline */ \"a\": 1 }\n",
	"\"\\u00e9\\n\"",
	"{\"a\":",
	"[[[[[[[[[[[[[[[[[[[[",
	"01 .5 +1 NaN",
	"'single'",
	"\xef\xbb\xbf{}",
}

func addJSSeeds(f *testing.F) {
	for _, s := range jsSeeds {
		f.Add([]byte(s))
	}
}

func addJSONSeeds(f *testing.F) {
	for _, s := range jsonSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f, filepath.Join("..", "lang", "json", "testdata"))
}

// addTestdataSeeds adds the inputs of every datadriven case below root.
func addTestdataSeeds(f *testing.F, root string) {
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		for _, input := range datadrivenInputs(data) {
			f.Add(clampSeed(input))
		}
		return nil
	})
}

// datadrivenInputs extracts the input blocks of a datadriven file: the lines
// between a directive and its "----" separator.
func datadrivenInputs(data []byte) [][]byte {
	var (
		out     [][]byte
		block   []string
		inInput bool
		inOut   bool
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64<<10), maxSeedBytes)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case inOut:
			// вывод заканчивается пустой строкой
			if strings.TrimSpace(line) == "" {
				inOut = false
			}
		case inInput:
			if line == "----" {
				out = append(out, []byte(strings.Join(block, "\n")))
				block = block[:0]
				inInput = false
				inOut = true
				continue
			}
			block = append(block, line)
		case strings.TrimSpace(line) == "", strings.HasPrefix(line, "#"):
		default:
			inInput = true
		}
	}
	return out
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
