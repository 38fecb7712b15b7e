package tokenizer

import (
	"fmt"
	"log"
)

// TrainResult is the outcome of a training run.
type TrainResult struct {
	Merges *MergeTable
	Vocab  [][]byte
}

// Train learns up to vocabSize-256 merges over the byte sequences of chunks.
// Pair counts are pooled across chunks but merges are applied to each chunk
// independently, so no merge ever spans two chunks. Training stops early when
// no pair is left. When logger is non-nil every merge is logged.
func Train(chunks [][]byte, vocabSize int, logger *log.Logger) (*TrainResult, error) {
	if vocabSize < int(FirstMergeID) {
		return nil, fmt.Errorf("%w: got %d", ErrVocabSize, vocabSize)
	}
	numMerges := vocabSize - int(FirstMergeID)

	seqs := make([][]Rank, len(chunks))
	for i, c := range chunks {
		seqs[i] = bytesToIDs(c)
	}

	merges := NewMergeTable()
	vocab := BuildVocab(merges)
	for i := 0; i < numMerges; i++ {
		counts := NewPairCounts()
		for _, s := range seqs {
			counts.Add(s)
		}
		best, freq, ok := counts.Max()
		if !ok {
			if logger != nil {
				logger.Printf("nothing left to merge after %d merges", i)
			}
			break
		}
		id := merges.Add(best)
		for j, s := range seqs {
			seqs[j] = MergePair(s, best, id)
		}
		vocab = append(vocab, concatBytes(vocab[best.A], vocab[best.B]))
		if logger != nil {
			logger.Printf("merge %d/%d: (%d, %d) -> %d (%q) had %d occurrences",
				i+1, numMerges, best.A, best.B, id, vocab[id], freq)
		}
	}
	return &TrainResult{Merges: merges, Vocab: vocab}, nil
}
