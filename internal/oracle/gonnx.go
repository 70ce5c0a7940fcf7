package oracle

import (
	"fmt"
	"math"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"github.com/rs/zerolog/log"
	"gorgonia.org/tensor"

	"github.com/tenuki/engine/internal/ai"
	"github.com/tenuki/engine/internal/game"
)

// Net runs position inference through gonnx (pure Go ONNX runtime). The
// policy model is required; the value model is optional and a missing one
// degrades Predict's value estimate to zero. gonnx models are not safe for
// concurrent Run calls, so both are serialized behind one mutex.
type Net struct {
	policy *gonnx.Model
	value  *gonnx.Model
	mu     sync.Mutex
}

var _ ai.Oracle = (*Net)(nil)

// Load reads policy.onnx (required) and value.onnx (optional) from dir.
func Load(dir string) (*Net, error) {
	policyPath := dir + "/policy.onnx"
	policy, err := gonnx.NewModelFromFile(policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy model %s: %w", policyPath, err)
	}

	valuePath := dir + "/value.onnx"
	value, err := gonnx.NewModelFromFile(valuePath)
	if err != nil {
		log.Warn().Err(err).Str("path", valuePath).Msg("oracle: value model not found, value estimate disabled")
		value = nil
	}

	return &Net{policy: policy, value: value}, nil
}

// LoadOrNil returns a loaded oracle or nil, logging the failure. Callers hand
// the result straight to the selector factory, which treats nil as "no model".
func LoadOrNil(dir string) ai.Oracle {
	if dir == "" {
		return nil
	}
	n, err := Load(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("oracle: model load failed, guided search unavailable")
		return nil
	}
	log.Info().Str("dir", dir).Bool("value", n.value != nil).Msg("oracle: models loaded")
	return n
}

// Predict encodes the position, runs the policy model and (when loaded) the
// value model, and returns a softmaxed per-point distribution plus a value in
// [-1, 1] from toMove's perspective.
func (n *Net) Predict(b *game.Board, toMove game.Color) ([]float32, float32, error) {
	input := boardTensor(b, toMove)

	n.mu.Lock()
	outputs, err := n.policy.Run(gonnx.Tensors{"board": input})
	n.mu.Unlock()
	if err != nil {
		return nil, 0, fmt.Errorf("policy run: %w", err)
	}

	logits, err := flatOutput(outputs, "policy")
	if err != nil {
		return nil, 0, err
	}
	if len(logits) < b.Size()*b.Size() {
		return nil, 0, fmt.Errorf("policy output has %d values, need %d", len(logits), b.Size()*b.Size())
	}
	policy := softmax(logits[:b.Size()*b.Size()])

	if n.value == nil {
		return policy, 0, nil
	}

	n.mu.Lock()
	outputs, err = n.value.Run(gonnx.Tensors{"board": input})
	n.mu.Unlock()
	if err != nil {
		return nil, 0, fmt.Errorf("value run: %w", err)
	}
	vals, err := flatOutput(outputs, "value")
	if err != nil {
		return nil, 0, err
	}
	if len(vals) == 0 {
		return nil, 0, fmt.Errorf("value output is empty")
	}
	return policy, vals[0], nil
}

func boardTensor(b *game.Board, toMove game.Color) tensor.Tensor {
	return tensor.New(
		tensor.WithShape(1, NumPlanes, b.Size(), b.Size()),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(EncodePlanes(b, toMove)),
	)
}

// flatOutput extracts the named output tensor as []float32, falling back to
// the model's sole output when the name doesn't match.
func flatOutput(outputs gonnx.Tensors, name string) ([]float32, error) {
	out, ok := outputs[name]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("no output tensor named %q", name)
	}

	switch d := out.Data().(type) {
	case []float32:
		return d, nil
	case []float64:
		f32 := make([]float32, len(d))
		for i, v := range d {
			f32[i] = float32(v)
		}
		return f32, nil
	default:
		return nil, fmt.Errorf("unexpected output type %T for %q", d, name)
	}
}

// softmax maps raw logits to a distribution, shifted by the max for
// numerical stability.
func softmax(logits []float32) []float32 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	out := make([]float32, len(logits))
	sum := 0.0
	for i, v := range logits {
		e := math.Exp(float64(v - maxLogit))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}
