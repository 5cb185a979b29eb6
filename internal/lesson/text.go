package lesson

import (
	"fmt"
	"io"

	"github.com/pkoukk/tiktoken-go"

	"github.com/chalk-ml/chalk/internal/display"
	"github.com/chalk-ml/chalk/internal/tensor"
)

// textEncoding is the BPE encoding used by the text lesson.
const textEncoding = "cl100k_base"

func runText(w io.Writer, backend tensor.Backend) error {
	heading(w, "Text: from characters to tensors")

	say(w, "Frameworks only ever see numbers. Before text reaches a graph,")
	say(w, "a tokenizer splits it into subword pieces and maps each piece to")
	say(w, "an integer id from a fixed vocabulary.")
	say(w, "")

	encoding, err := tiktoken.GetEncoding(textEncoding)
	if err != nil {
		return fmt.Errorf("load %s encoding: %w", textEncoding, err)
	}

	const sentence = "Tensors all the way down."
	ids := encoding.Encode(sentence, nil, nil)

	say(w, "input: %q", sentence)
	say(w, "tokens (%s): %d pieces", textEncoding, len(ids))
	for _, id := range ids {
		say(w, "  %6d -> %q", id, encoding.Decode([]int{id}))
	}
	say(w, "")

	raw, err := tensor.NewRaw(tensor.Shape{len(ids)}, tensor.Int64, tensor.CPU)
	if err != nil {
		return err
	}
	data := raw.AsInt64()
	for i, id := range ids {
		data[i] = int64(id)
	}

	say(w, "As a tensor the ids are ordinary data, %s:", display.Summary(raw))
	say(w, "%s", display.Format(raw))
	say(w, "")
	say(w, "Decoding the tensor recovers the sentence: %q", encoding.Decode(ids))

	return nil
}
