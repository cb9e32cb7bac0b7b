// Package routing implements the input/output routing matrix: per-input
// gain and mono-sum, per-output source selection and mix level, muting,
// and stereo-link propagation between output pairs.
package routing
