package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/peerkart/internal/ports"
)

// InputFormat — формат входного файла.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile — валидирует файл черновиков (JSON или JSONL) и пишет валидные записи в writer.
// Возвращает сводку вида "N valid / M invalid".
func ValidateFile(ctx context.Context, validator ports.OrderDraftValidator, filePath string, format InputFormat, ow io.Writer) (string, error) {
	if format == FormatAuto {
		format = FormatJSON
		if strings.ToLower(filepath.Ext(filePath)) == ".jsonl" {
			format = FormatJSONL
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		draft, err := DraftFromJSON(ctx, validator, raw)
		if err != nil {
			return "0 valid / 1 invalid", err
		}
		canonical, _ := json.Marshal(draft)
		if _, err := ow.Write(append(canonical, '\n')); err != nil {
			return "", fmt.Errorf("write json: %w", err)
		}
		return "1 valid / 0 invalid", nil

	case FormatJSONL:
		result, err := ValidateJSONLStream(ctx, validator, file, ow)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d valid / %d invalid", result.ValidLinesCount, result.InvalidLinesCount), nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
