package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidgetLimit(t *testing.T) {
	assert.Equal(t, 1, WidgetLimit(PlanTrial))
	assert.Equal(t, 3, WidgetLimit(PlanStarter))
	assert.Equal(t, 10, WidgetLimit(PlanProfessional))
	assert.Equal(t, 50, WidgetLimit(PlanEnterprise))
	assert.Equal(t, 1, WidgetLimit("LEGACY"), "unknown plans fall back to trial")
}

func TestMergeWidgetConfigNestedMaps(t *testing.T) {
	merged := MergeWidgetConfig(DefaultWidgetConfig(), map[string]any{
		"theme": map[string]any{"primaryColor": "#112233"},
		"ai":    map[string]any{"maxTokens": 900},
		"extra": "kept",
	})

	theme := merged["theme"].(map[string]any)
	assert.Equal(t, "#112233", theme["primaryColor"])
	assert.Equal(t, "8px", theme["borderRadius"])

	ai := merged["ai"].(map[string]any)
	assert.Equal(t, 900, ai["maxTokens"])
	assert.Equal(t, "gpt-3.5-turbo", ai["model"])

	assert.Equal(t, "kept", merged["extra"])
}

func TestMergeWidgetConfigScalarReplacesMap(t *testing.T) {
	merged := MergeWidgetConfig(
		map[string]any{"behavior": map[string]any{"greeting": "hi"}},
		map[string]any{"behavior": "off"},
	)
	assert.Equal(t, "off", merged["behavior"])
}

func TestMergeWidgetConfigDoesNotMutateBase(t *testing.T) {
	base := DefaultWidgetConfig()
	MergeWidgetConfig(base, map[string]any{"theme": map[string]any{"primaryColor": "#000"}})

	theme := base["theme"].(map[string]any)
	assert.Equal(t, "#007bff", theme["primaryColor"])
}

func TestAIModelFallback(t *testing.T) {
	w := &Widget{Config: map[string]any{}}
	assert.Equal(t, "gpt-3.5-turbo", w.AIModel())

	w.Config = map[string]any{"ai": map[string]any{"model": "gpt-4o-mini"}}
	assert.Equal(t, "gpt-4o-mini", w.AIModel())
}
