package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskRoadmap        TaskType = "roadmap"
	TaskRefine         TaskType = "refine"
	TaskDailyTasks     TaskType = "daily_tasks"
	TaskMissedAnalysis TaskType = "missed_analysis"
)

// Provider selects the LLM backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TimeoutMs   int     `mapstructure:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool                    `mapstructure:"enabled"`
	LogCalls   bool                    `mapstructure:"log_calls"`
	Provider   Provider                `mapstructure:"provider"`
	Endpoint   string                  `mapstructure:"endpoint"`
	Model      string                  `mapstructure:"model"`
	APIKey     string                  `mapstructure:"api_key"`
	TimeoutMs  int                     `mapstructure:"timeout_ms"`
	MaxRetries int                     `mapstructure:"max_retries"`
	Tasks      map[TaskType]TaskConfig `mapstructure:"tasks"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default; every caller has a deterministic fallback.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskRoadmap:        {Temperature: 0.7, MaxTokens: 4096, TimeoutMs: 60000},
			TaskRefine:         {Temperature: 0.5, MaxTokens: 4096, TimeoutMs: 60000},
			TaskDailyTasks:     {Temperature: 0.3, MaxTokens: 8192, TimeoutMs: 90000},
			TaskMissedAnalysis: {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 20000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// TaskParams returns the per-task sampling parameters, or zero values.
func (c LLMConfig) TaskParams(task TaskType) TaskConfig {
	return c.Tasks[task]
}
