package utils

// SplitText breaks a corpus document into overlapping chunks before
// embedding, so retrieval stays passage-granular. Rune-based, which keeps
// Japanese content intact; the overlap preserves context across boundaries.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	var chunks []string

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
