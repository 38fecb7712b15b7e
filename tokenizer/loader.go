package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ModelVersion is the first line of every model file.
const ModelVersion = "tinyBPE/v1.0"

// Model is the persisted state of a tokenizer. The vocabulary is not part of
// it; BuildVocab recreates it from Merges.
type Model struct {
	Pattern  string
	Specials []Special
	Merges   *MergeTable
}

// WriteModel writes m in the line format:
//
//	tinyBPE/v1.0
//	<pattern, empty for byte-level>
//	<n specials>
//	<special> <id>        (n lines)
//	<a> <b> <id>          (one per merge, in id order)
func WriteModel(w io.Writer, m Model) error {
	if strings.ContainsAny(m.Pattern, "\r\n") {
		return fmt.Errorf("%w: pattern contains a line break", ErrMalformedModel)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ModelVersion)
	fmt.Fprintln(bw, m.Pattern)
	fmt.Fprintln(bw, len(m.Specials))
	for _, s := range m.Specials {
		if err := ValidateSpecial(s.Text); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedModel, err)
		}
		fmt.Fprintf(bw, "%s %d\n", s.Text, s.ID)
	}
	if m.Merges != nil {
		m.Merges.Each(func(p Pair, id Rank) {
			fmt.Fprintf(bw, "%d %d %d\n", p.A, p.B, id)
		})
	}
	return bw.Flush()
}

// ReadModel parses a model written by WriteModel. Merge lines may come in any
// order since the id carries the rank.
func ReadModel(r io.Reader) (Model, error) {
	var m Model
	br := bufio.NewReader(r)
	lineNo := 0
	next := func() (string, bool, error) {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", false, err
		}
		if line == "" && errors.Is(err, io.EOF) {
			return "", false, nil
		}
		lineNo++
		return strings.TrimRight(line, "\r\n"), true, nil
	}

	version, ok, err := next()
	if err != nil {
		return m, err
	}
	if !ok || version != ModelVersion {
		return m, fmt.Errorf("%w: got %q want %q", ErrVersion, version, ModelVersion)
	}
	if m.Pattern, ok, err = next(); err != nil {
		return m, err
	} else if !ok {
		return m, fmt.Errorf("%w: missing pattern line", ErrMalformedModel)
	}

	countLine, ok, err := next()
	if err != nil {
		return m, err
	}
	n, perr := strconv.Atoi(strings.TrimSpace(countLine))
	if !ok || perr != nil || n < 0 {
		return m, fmt.Errorf("%w: special count at line %d", ErrMalformedModel, lineNo)
	}
	seenText := make(map[string]struct{}, n)
	seenID := make(map[Rank]struct{}, n)
	for i := 0; i < n; i++ {
		line, ok, err := next()
		if err != nil {
			return m, err
		}
		sp := strings.LastIndexByte(line, ' ')
		if !ok || sp <= 0 {
			return m, fmt.Errorf("%w: special token at line %d", ErrMalformedModel, lineNo)
		}
		id, perr := strconv.ParseUint(line[sp+1:], 10, 32)
		if perr != nil {
			return m, fmt.Errorf("%w: special id at line %d: %v", ErrMalformedModel, lineNo, perr)
		}
		text := line[:sp]
		if _, dup := seenText[text]; dup {
			return m, fmt.Errorf("%w: duplicate special %q at line %d", ErrMalformedModel, text, lineNo)
		}
		if _, dup := seenID[Rank(id)]; dup {
			return m, fmt.Errorf("%w: duplicate special id %d at line %d", ErrMalformedModel, id, lineNo)
		}
		seenText[text], seenID[Rank(id)] = struct{}{}, struct{}{}
		m.Specials = append(m.Specials, Special{Text: text, ID: Rank(id)})
	}

	var entries []MergeEntry
	for {
		line, ok, err := next()
		if err != nil {
			return m, err
		}
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return m, fmt.Errorf("%w: merge at line %d", ErrMalformedModel, lineNo)
		}
		var vals [3]Rank
		for k, f := range fields {
			v, perr := strconv.ParseUint(f, 10, 32)
			if perr != nil {
				return m, fmt.Errorf("%w: merge at line %d: %v", ErrMalformedModel, lineNo, perr)
			}
			vals[k] = Rank(v)
		}
		entries = append(entries, MergeEntry{Pair: Pair{vals[0], vals[1]}, ID: vals[2]})
	}
	if m.Merges, err = MergeTableFromEntries(entries); err != nil {
		return m, err
	}
	return m, nil
}
