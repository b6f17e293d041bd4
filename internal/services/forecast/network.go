package forecast

import (
	"fmt"
	"math"
	"math/rand"
)

// Config holds the network hyperparameters.
type Config struct {
	Hidden1      int
	Hidden2      int
	LearningRate float64
	TrainSplit   float64
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{Hidden1: 32, Hidden2: 16, LearningRate: 0.01, TrainSplit: 0.7}
}

func (c Config) withDefaults() Config {
	if c.Hidden1 <= 0 {
		c.Hidden1 = 32
	}
	if c.Hidden2 <= 0 {
		c.Hidden2 = 16
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 0.01
	}
	if c.TrainSplit <= 0 || c.TrainSplit >= 1 {
		c.TrainSplit = 0.7
	}
	return c
}

// Metrics are held-out evaluation results in the original price scale.
type Metrics struct {
	RMSE float64
	MAPE float64
	R2   float64
}

// Network is a small feedforward regressor: lookback inputs, two ReLU hidden
// layers, one linear output. Weights are seeded deterministically so the same
// (series, lookback, epochs, seed) always trains to the same state.
type Network struct {
	lookback int
	h1, h2   int
	lr       float64

	w1 [][]float64
	b1 []float64
	w2 [][]float64
	b2 []float64
	w3 []float64
	b3 float64

	rng *rand.Rand
}

// NewNetwork builds a network with seeded weight initialization.
func NewNetwork(lookback int, cfg Config, seed int64) *Network {
	cfg = cfg.withDefaults()
	n := &Network{
		lookback: lookback,
		h1:       cfg.Hidden1,
		h2:       cfg.Hidden2,
		lr:       cfg.LearningRate,
		rng:      rand.New(rand.NewSource(seed)),
	}
	n.w1 = n.initMatrix(n.h1, lookback)
	n.b1 = make([]float64, n.h1)
	n.w2 = n.initMatrix(n.h2, n.h1)
	n.b2 = make([]float64, n.h2)
	n.w3 = n.initVector(n.h2)
	return n
}

func (n *Network) initMatrix(rows, cols int) [][]float64 {
	scale := math.Sqrt(2.0 / float64(cols))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = (n.rng.Float64()*2 - 1) * scale
		}
	}
	return m
}

func (n *Network) initVector(cols int) []float64 {
	scale := math.Sqrt(2.0 / float64(cols))
	v := make([]float64, cols)
	for i := range v {
		v[i] = (n.rng.Float64()*2 - 1) * scale
	}
	return v
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func reluPrime(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// forward computes both pre-activations (for backprop) and activations.
func (n *Network) forward(x []float64) (z1, a1, z2, a2 []float64, out float64) {
	z1 = make([]float64, n.h1)
	a1 = make([]float64, n.h1)
	for i := 0; i < n.h1; i++ {
		sum := n.b1[i]
		for j, xv := range x {
			sum += n.w1[i][j] * xv
		}
		z1[i] = sum
		a1[i] = relu(sum)
	}

	z2 = make([]float64, n.h2)
	a2 = make([]float64, n.h2)
	for i := 0; i < n.h2; i++ {
		sum := n.b2[i]
		for j := 0; j < n.h1; j++ {
			sum += n.w2[i][j] * a1[j]
		}
		z2[i] = sum
		a2[i] = relu(sum)
	}

	out = n.b3
	for i := 0; i < n.h2; i++ {
		out += n.w3[i] * a2[i]
	}
	return z1, a1, z2, a2, out
}

// Predict runs one window forward.
func (n *Network) Predict(x []float64) float64 {
	_, _, _, _, out := n.forward(x)
	return out
}

// Train runs SGD on MSE over the samples for the given number of epochs,
// shuffling sample order each epoch with the seeded generator. It returns the
// mean squared error per epoch.
func (n *Network) Train(X [][]float64, y []float64, epochs int) []float64 {
	if len(X) == 0 || len(X) != len(y) {
		return nil
	}

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	losses := make([]float64, 0, epochs)
	for e := 0; e < epochs; e++ {
		n.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		sum := 0.0
		for _, idx := range order {
			sum += n.step(X[idx], y[idx])
		}
		losses = append(losses, sum/float64(len(X)))
	}
	return losses
}

// step performs one SGD update and returns the squared error before the update.
func (n *Network) step(x []float64, target float64) float64 {
	z1, a1, z2, a2, out := n.forward(x)
	err := out - target

	// output layer
	for i := 0; i < n.h2; i++ {
		n.w3[i] -= n.lr * err * a2[i]
	}
	n.b3 -= n.lr * err

	// second hidden layer
	d2 := make([]float64, n.h2)
	for i := 0; i < n.h2; i++ {
		d2[i] = err * n.w3[i] * reluPrime(z2[i])
		for j := 0; j < n.h1; j++ {
			n.w2[i][j] -= n.lr * d2[i] * a1[j]
		}
		n.b2[i] -= n.lr * d2[i]
	}

	// first hidden layer
	for i := 0; i < n.h1; i++ {
		d1 := 0.0
		for j := 0; j < n.h2; j++ {
			d1 += d2[j] * n.w2[j][i]
		}
		d1 *= reluPrime(z1[i])
		for j, xv := range x {
			n.w1[i][j] -= n.lr * d1 * xv
		}
		n.b1[i] -= n.lr * d1
	}

	return err * err
}

// BuildWindows slices a scaled series into (lookback-window, next-value)
// training pairs. Requires len(scaled) >= lookback+1 for at least one pair.
func BuildWindows(scaled []float64, lookback int) ([][]float64, []float64) {
	if lookback <= 0 || len(scaled) < lookback+1 {
		return nil, nil
	}
	n := len(scaled) - lookback
	X := make([][]float64, 0, n)
	y := make([]float64, 0, n)
	for i := lookback; i < len(scaled); i++ {
		X = append(X, scaled[i-lookback:i])
		y = append(y, scaled[i])
	}
	return X, y
}

// Model couples a trained network with its scaler for inference.
type Model struct {
	net      *Network
	scaler   *Scaler
	lookback int
}

// Train fits a model on the close series: chronological train/test split,
// SGD training on the train windows, metrics on the held-out windows (train
// windows when the split leaves none).
func Train(closes []float64, lookback, epochs int, cfg Config, seed int64) (*Model, Metrics, error) {
	cfg = cfg.withDefaults()
	if lookback <= 0 {
		return nil, Metrics{}, fmt.Errorf("lookback must be positive, got %d", lookback)
	}
	if len(closes) < lookback+1 {
		return nil, Metrics{}, fmt.Errorf("need at least %d closes, got %d", lookback+1, len(closes))
	}

	scaler := FitScaler(closes)
	scaled := scaler.TransformAll(closes)
	X, y := BuildWindows(scaled, lookback)

	trainN := int(float64(len(X)) * cfg.TrainSplit)
	if trainN < 1 {
		trainN = len(X)
	}

	net := NewNetwork(lookback, cfg, seed)
	net.Train(X[:trainN], y[:trainN], epochs)

	testX, testY := X[trainN:], y[trainN:]
	if len(testX) == 0 {
		testX, testY = X[:trainN], y[:trainN]
	}

	m := &Model{net: net, scaler: scaler, lookback: lookback}
	return m, m.evaluate(testX, testY), nil
}

// PredictNext runs the trailing lookback window forward and returns the
// next-close estimate in the original price scale.
func (m *Model) PredictNext(closes []float64) (float64, error) {
	if len(closes) < m.lookback {
		return 0, fmt.Errorf("need at least %d closes, got %d", m.lookback, len(closes))
	}
	window := m.scaler.TransformAll(closes[len(closes)-m.lookback:])
	return m.scaler.Inverse(m.net.Predict(window)), nil
}

// Lookback returns the window length the model was trained with.
func (m *Model) Lookback() int { return m.lookback }

func (m *Model) evaluate(X [][]float64, y []float64) Metrics {
	if len(X) == 0 {
		return Metrics{}
	}

	preds := make([]float64, len(X))
	actual := make([]float64, len(X))
	for i := range X {
		preds[i] = m.scaler.Inverse(m.net.Predict(X[i]))
		actual[i] = m.scaler.Inverse(y[i])
	}

	var sse, sae, mean float64
	for _, a := range actual {
		mean += a
	}
	mean /= float64(len(actual))

	var sst float64
	mapeN := 0
	for i := range preds {
		d := preds[i] - actual[i]
		sse += d * d
		if actual[i] != 0 {
			sae += math.Abs(d / actual[i])
			mapeN++
		}
		td := actual[i] - mean
		sst += td * td
	}

	met := Metrics{RMSE: math.Sqrt(sse / float64(len(preds)))}
	if mapeN > 0 {
		met.MAPE = sae / float64(mapeN) * 100
	}
	switch {
	case sst > 0:
		met.R2 = 1 - sse/sst
	case sse == 0:
		met.R2 = 1
	}
	return met
}
