package rules

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/chunkforge/internal/ctxlog"
	"github.com/samdwyer/chunkforge/internal/telemetry"
)

const (
	blockOpen  = "[CHUNKTYPE]"
	blockClose = "[/CHUNKTYPE]"
)

// LoadFile reads and parses the rule file at path.
func LoadFile(ctx context.Context, path string) (*LevelSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file %s: %w", path, err)
	}
	defer f.Close()

	level, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule file %s: %w", path, err)
	}
	return level, nil
}

// ParseString parses rule text held in memory.
func ParseString(ctx context.Context, text string) (*LevelSpec, error) {
	return Parse(ctx, strings.NewReader(text))
}

// Parse reads a rule file in a single pass. Malformed numbers, colors and
// vectors fail with ErrFormat; an unclosed chunk block fails with
// ErrUnexpectedEOF; MINCHUNK/MAXCHUNK that cannot be sampled fail with ErrRange.
func Parse(ctx context.Context, r io.Reader) (*LevelSpec, error) {
	ctx, span := telemetry.Tracer("rules").Start(ctx, "rules.parse")
	defer span.End()
	logger := ctxlog.FromContext(ctx)

	level := NewLevelSpec()
	scanner := bufio.NewScanner(r)

	var (
		lineNo     int
		chunk      *ChunkSpec
		blockStart int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if chunk != nil {
			if line == blockClose {
				level.Chunks = append(level.Chunks, chunk)
				logger.Debug("chunk type parsed", "name", chunk.Name, "files", len(chunk.Files), "line", blockStart)
				chunk = nil
				continue
			}
			if line == blockOpen {
				return nil, &ParseError{Line: lineNo, Tag: blockOpen, Err: ErrFormat,
					Cause: fmt.Errorf("block opened at line %d is still open", blockStart)}
			}
			tag, value, ok := splitTag(line)
			if !ok {
				continue
			}
			switch tag {
			case "CHUNK_NAME":
				chunk.Name = value
			case "CHUNK_FILE":
				chunk.Files = append(chunk.Files, value)
			}
			continue
		}

		if line == blockOpen {
			chunk = &ChunkSpec{Files: make([]string, 0, 1)}
			blockStart = lineNo
			continue
		}

		tag, value, ok := splitTag(line)
		if !ok {
			continue
		}
		if err := applyGlobal(level, tag, value); err != nil {
			return nil, &ParseError{Line: lineNo, Tag: tag, Value: value, Err: ErrFormat, Cause: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo + 1, Err: ErrFormat, Cause: err}
	}

	if chunk != nil {
		return nil, &ParseError{Line: blockStart, Tag: blockOpen, Value: chunk.Name, Err: ErrUnexpectedEOF}
	}
	if level.MinChunks < 0 {
		return nil, &ParseError{Tag: "MINCHUNK", Value: strconv.Itoa(level.MinChunks), Err: ErrRange,
			Cause: errors.New("must not be negative")}
	}
	if level.MinChunks > level.MaxChunks {
		return nil, &ParseError{Tag: "MAXCHUNK", Value: strconv.Itoa(level.MaxChunks), Err: ErrRange,
			Cause: fmt.Errorf("below MINCHUNK %d", level.MinChunks)}
	}
	if !SpanFits(level.MinChunks, level.MaxChunks) {
		return nil, &ParseError{Tag: "MAXCHUNK", Value: strconv.Itoa(level.MaxChunks), Err: ErrRange,
			Cause: fmt.Errorf("span from MINCHUNK %d overflows", level.MinChunks)}
	}

	span.SetAttributes(
		attribute.String("level.name", level.Name),
		attribute.Int("level.chunk_types", len(level.Chunks)),
		attribute.Int("level.min_chunks", level.MinChunks),
		attribute.Int("level.max_chunks", level.MaxChunks),
	)
	return level, nil
}

// SpanFits reports whether [minChunks, maxChunks] is a non-empty range whose
// size, maxChunks-minChunks+1, fits in an int.
func SpanFits(minChunks, maxChunks int) bool {
	if minChunks < 0 || minChunks > maxChunks {
		return false
	}
	return maxChunks-minChunks < math.MaxInt
}

// splitTag splits "TAG=VALUE" at the first '='.
func splitTag(line string) (tag, value string, ok bool) {
	tag, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(tag), strings.TrimSpace(value), true
}

func applyGlobal(level *LevelSpec, tag, value string) error {
	var err error
	switch tag {
	case "LEVELNAME":
		level.Name = value
	case "BGMUSIC":
		level.BackgroundMusic = value
	case "AMBIENT":
		level.AmbientColor, err = ParseColor(value)
	case "DIRECTION_COLOR":
		level.DirectionLightColor, err = ParseColor(value)
	case "DIRECTION_DIR":
		level.DirectionLightDir, err = ParseVector3(value)
	case "FOG_COLOR":
		level.FogColor, err = ParseColor(value)
	case "FOG_BEGIN":
		level.FogBegin, err = strconv.ParseFloat(value, 64)
	case "FOG_END":
		level.FogEnd, err = strconv.ParseFloat(value, 64)
	case "MINCHUNK":
		level.MinChunks, err = strconv.Atoi(value)
	case "MAXCHUNK":
		level.MaxChunks, err = strconv.Atoi(value)
	}
	return err
}
