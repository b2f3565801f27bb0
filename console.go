package lockstep

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/lockstep/internal/runtime"
	"github.com/aretw0/lockstep/pkg/domain"
)

// stdin backs the passthrough path of ReadLine outside test sessions.
var stdin = bufio.NewReader(os.Stdin)

// ReadLine reads a line of text, not including the line terminator.
// Called from a subject it blocks until the driver injects input with
// SendInput (or the subject's doubled timeout lapses, which stops the
// subject). Called from any other goroutine it reads from standard
// input; ok is false once the end of the stream is reached.
func ReadLine() (line string, ok bool) {
	if rt := runtime.CallerSubject(); rt != nil {
		v, abort := rt.TakeInput()
		if abort != nil {
			panic(abort)
		}
		return v, true
	}
	raw, err := stdin.ReadString('\n')
	if err != nil && raw == "" {
		return "", false
	}
	return strings.TrimRight(raw, "\r\n"), true
}

// PrintLine prints the string representation of v and terminates the
// line. Called from a subject the line is handed to the driver's next
// ReceiveOutput instead of being written to standard output.
func PrintLine(v any) {
	if rt := runtime.CallerSubject(); rt != nil {
		if abort := rt.EmitOutput(fmt.Sprint(v)); abort != nil {
			panic(abort)
		}
		return
	}
	fmt.Println(v)
}

// PrintError prints message prefixed with "Error, ". It behaves
// exactly as PrintLine("Error, " + message).
func PrintError(message string) {
	PrintLine("Error, " + message)
}

// ReadFile reads the file at path and returns its lines. Not available
// inside a test session; there it returns domain.ErrNotSupported.
func ReadFile(path string) ([]string, error) {
	if runtime.CallerSubject() != nil {
		return nil, domain.ErrNotSupported
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}
