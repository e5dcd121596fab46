package domain

import "time"

// ChunkReport describes one written entry chunk.
type ChunkReport struct {
	Entry        string   `json:"entry"`
	Format       Format   `json:"format"`
	File         string   `json:"file"`
	Size         int64    `json:"size"`
	GzipSize     int64    `json:"gzipSize"`
	Exports      []string `json:"exports"`
	Dependencies []string `json:"dependencies"`
}

// BuildReport summarizes one build.
type BuildReport struct {
	Package    string        `json:"package"`
	RootDir    string        `json:"rootDir"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Chunks     []ChunkReport `json:"chunks"`
}

// Duration returns how long the build took.
func (r *BuildReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
