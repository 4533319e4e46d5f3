package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/peerkart/internal/ports"
)

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
}

// ValidateJSONLStream — читает JSONL, валидирует каждую строку, валидные пишет в writer
// каноническим JSON по одной записи на строку. Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderDraftValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		draft, err := DraftFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.InvalidLinesCount++
			continue
		}

		canonical, _ := json.Marshal(draft)
		if _, err := ow.Write(append(canonical, '\n')); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
