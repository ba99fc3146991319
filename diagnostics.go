// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/buke/vue-compile-go/compiler"
)

const compileErrorPrefix = "Template compilation error: "

// formatDiagnostic composes the message logged for a compiler diagnostic.
// Errors are prefixed, warnings are not, and a code frame of the offending
// span is appended when the diagnostic has a location.
func formatDiagnostic(template string, err *compiler.Error, asWarning bool) string {
	message := err.Message
	if !asWarning {
		message = compileErrorPrefix + err.Message
	}

	if err.Loc != nil {
		if frame := generateCodeFrame(template, err.Loc.Start.Offset, err.Loc.End.Offset); frame != "" {
			return message + "\n" + frame
		}
	}
	return message
}

// codeFrameRange is the number of context lines shown around the first
// line of the span.
const codeFrameRange = 2

// generateCodeFrame renders the lines of source around [start, end) with
// line numbers and a caret underline. Offsets are UTF-16 code units.
func generateCodeFrame(source string, start, end int) string {
	units := utf16.Encode([]rune(source))
	start = max(0, min(start, len(units)))
	end = max(0, min(end, len(units)))
	if start > end {
		return ""
	}

	lines, newlines := splitLines(units)
	newlineLen := func(i int) int {
		if i < len(newlines) {
			return newlines[i]
		}
		return 0
	}

	count := 0
	res := make([]string, 0, 2*codeFrameRange+2)
	for i := 0; i < len(lines); i++ {
		count += len(lines[i]) + newlineLen(i)
		if count < start {
			continue
		}

		for j := i - codeFrameRange; j <= i+codeFrameRange || end > count; j++ {
			if j < 0 || j >= len(lines) {
				continue
			}
			line := j + 1
			res = append(res, strconv.Itoa(line)+strings.Repeat(" ", max(3-len(strconv.Itoa(line)), 0))+"|  "+string(utf16.Decode(lines[j])))

			lineLength := len(lines[j])
			newLineSeqLength := newlineLen(j)
			if j == i {
				pad := start - (count - (lineLength + newLineSeqLength))
				length := end - start
				if end > count {
					length = lineLength - pad
				}
				res = append(res, "   |  "+strings.Repeat(" ", max(pad, 0))+strings.Repeat("^", max(1, length)))
			} else if j > i {
				if end > count {
					length := max(min(end-count, lineLength), 1)
					res = append(res, "   |  "+strings.Repeat("^", length))
				}
				count += lineLength + newLineSeqLength
			}
		}
		break
	}
	return strings.Join(res, "\n")
}

// splitLines splits units on \n and \r\n, returning the lines and the length
// of the newline sequence that ended each of them.
func splitLines(units []uint16) ([][]uint16, []int) {
	var lines [][]uint16
	var newlines []int
	lineStart := 0
	for i, u := range units {
		if u != '\n' {
			continue
		}
		end, seq := i, 1
		if i > lineStart && units[i-1] == '\r' {
			end, seq = i-1, 2
		}
		lines = append(lines, units[lineStart:end])
		newlines = append(newlines, seq)
		lineStart = i + 1
	}
	lines = append(lines, units[lineStart:])
	return lines, newlines
}
