// Package dynamics implements a feed-forward peak/RMS compressor: level
// detection in dB, an exponential envelope follower, a hard- or soft-knee
// gain computer, and a fixed-coefficient gain smoother to suppress zipper
// noise. All math after detection runs in the dB domain.
package dynamics
