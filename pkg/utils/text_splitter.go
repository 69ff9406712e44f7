package utils

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters with 'overlap' characters of shared context at the boundaries.
// Character-based on purpose: chunk sizes are chosen well under any model
// context limit, so a tokenizer-aware splitter is not needed here.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
