package engine

// Reserved token ids of the placeholder vocabulary.
const (
	TokenEOS     int32 = 0
	TokenBOS     int32 = 3
	TokenUnknown int32 = 4
)

// StaticEmbeddingDim is the placeholder embedding width.
const StaticEmbeddingDim = 8

var staticVocab = map[string]int32{
	"Hello": 1,
	"world": 2,
}

var staticPieces = map[int32]string{
	0: "",
	1: "Hello",
	2: " world",
	3: "<BOS>",
	4: " token",
	5: "!",
}

// StaticBackend is the deterministic placeholder backend. It owns no weights.
type StaticBackend struct{}

func (StaticBackend) Name() string { return "static" }

func (StaticBackend) Init() error { return nil }

func (StaticBackend) Open(path string, gpuLayers int) (Runtime, error) {
	return staticRuntime{}, nil
}

type staticRuntime struct{}

func (staticRuntime) Tokenize(text string, addBOS bool, dst []int32) (int, error) {
	n := 0
	if addBOS && n < len(dst) {
		dst[n] = TokenBOS
		n++
	}
	i := 0
	for n < len(dst) {
		for i < len(text) && text[i] == ' ' {
			i++
		}
		if i >= len(text) {
			break
		}
		j := i
		for j < len(text) && text[j] != ' ' {
			j++
		}
		dst[n] = staticTokenID(text[i:j])
		n++
		i = j
	}
	return n, nil
}

func staticTokenID(word string) int32 {
	if id, ok := staticVocab[word]; ok {
		return id
	}
	return TokenUnknown
}

func (staticRuntime) Piece(token int32) string {
	if p, ok := staticPieces[token]; ok {
		return p
	}
	return "?"
}

func (staticRuntime) EmbeddingDim() int { return StaticEmbeddingDim }

func (staticRuntime) Embed(text string, dst []float32) error {
	n := len(text)
	for i := range dst {
		dst[i] = float32((n+i)%7) / 7.0
	}
	return nil
}

func (staticRuntime) Prefill(tokens []int32) error { return nil }

func (staticRuntime) Close() error { return nil }
