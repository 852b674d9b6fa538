package thread

import "strings"

// Chunk is a run of display lines from a message's text parts. Quoted
// runs are kept separate so the UI can fold them.
type Chunk struct {
	Quote bool
	Lines []string
}

// computeChunks derives the display chunks for every message in the
// tree rooted at m.
func computeChunks(m *Message) {
	m.Chunks = chunkParts(m.Parts)
	for _, child := range m.Children {
		computeChunks(child)
	}
}

func chunkParts(parts []Part) []Chunk {
	var chunks []Chunk
	for _, p := range parts {
		if p.ContentType != "text/plain" || p.Content == "" {
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(p.Content, "\n"), "\n") {
			quote := strings.HasPrefix(strings.TrimSpace(line), ">")
			if n := len(chunks); n > 0 && chunks[n-1].Quote == quote {
				chunks[n-1].Lines = append(chunks[n-1].Lines, line)
			} else {
				chunks = append(chunks, Chunk{Quote: quote, Lines: []string{line}})
			}
		}
	}
	return chunks
}
