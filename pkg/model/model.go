// Package model provides the writable parameter target a motion's blending
// pass mutates. A Model holds scalar parameter values and part opacities
// addressed by string id, with weighted override, additive and multiplicative
// write semantics. It is a plain in-memory store: rendering, deformation and
// hit-testing belong to the host application.
package model

// Model is a set of named scalar parameters and part opacities.
//
// A Model is exclusively owned by the caller for the duration of one blending
// pass; concurrent passes over the same Model must be serialized by the
// caller. Id lookups are backed by maps built at construction, so repeated
// per-frame resolution is O(1).
type Model struct {
	parameterIds     []string
	parameterValues  []float64
	parameterDefault []float64
	parameterIndex   map[string]int

	partIds       []string
	partOpacities []float64
	partIndex     map[string]int

	// opacity is the model-level opacity, driven directly by a motion's
	// reserved "Opacity" model curve.
	opacity float64
}

// NewModel creates a model with the given parameter and part ids. Parameter
// values start at 0, part opacities at 1, model opacity at 1.
func NewModel(parameterIds, partIds []string) *Model {
	m := &Model{
		parameterIds:     append([]string(nil), parameterIds...),
		parameterValues:  make([]float64, len(parameterIds)),
		parameterDefault: make([]float64, len(parameterIds)),
		parameterIndex:   make(map[string]int, len(parameterIds)),
		partIds:          append([]string(nil), partIds...),
		partOpacities:    make([]float64, len(partIds)),
		partIndex:        make(map[string]int, len(partIds)),
		opacity:          1.0,
	}

	for i, id := range m.parameterIds {
		m.parameterIndex[id] = i
	}
	for i, id := range m.partIds {
		m.partIndex[id] = i
		m.partOpacities[i] = 1.0
	}
	return m
}

// SetParameterDefault sets the default (rest) value of a parameter and resets
// the current value to it. Unknown ids are ignored.
func (m *Model) SetParameterDefault(id string, value float64) {
	if i, ok := m.parameterIndex[id]; ok {
		m.parameterDefault[i] = value
		m.parameterValues[i] = value
	}
}

// ParameterCount returns the number of parameters.
func (m *Model) ParameterCount() int {
	return len(m.parameterIds)
}

// ParameterId returns the id of the parameter at index.
func (m *Model) ParameterId(index int) string {
	return m.parameterIds[index]
}

// ParameterIndex resolves a parameter id to its index, or -1 if the model
// has no such parameter. Motions are shared across model variants with
// differing parameter sets, so a missing id is not an error.
func (m *Model) ParameterIndex(id string) int {
	if i, ok := m.parameterIndex[id]; ok {
		return i
	}
	return -1
}

// ParameterValue returns the current value of the parameter at index.
func (m *Model) ParameterValue(index int) float64 {
	return m.parameterValues[index]
}

// SetParameterValue overrides the parameter at index, blending from the
// current value by weight: current*(1-weight) + value*weight.
func (m *Model) SetParameterValue(index int, value, weight float64) {
	if weight == 1 {
		m.parameterValues[index] = value
		return
	}
	m.parameterValues[index] = m.parameterValues[index]*(1-weight) + value*weight
}

// AddParameterValue accumulates value*weight onto the parameter at index.
func (m *Model) AddParameterValue(index int, value, weight float64) {
	m.parameterValues[index] += value * weight
}

// MultiplyParameterValue scales the parameter at index by value, attenuated
// by weight: current * (1 + (value-1)*weight).
func (m *Model) MultiplyParameterValue(index int, value, weight float64) {
	m.parameterValues[index] *= 1 + (value-1)*weight
}

// PartCount returns the number of parts.
func (m *Model) PartCount() int {
	return len(m.partIds)
}

// PartIndex resolves a part id to its index, or -1 if absent.
func (m *Model) PartIndex(id string) int {
	if i, ok := m.partIndex[id]; ok {
		return i
	}
	return -1
}

// PartOpacity returns the opacity of the part at index.
func (m *Model) PartOpacity(index int) float64 {
	return m.partOpacities[index]
}

// SetPartOpacity overrides the opacity of the part at index, blending from
// the current opacity by weight.
func (m *Model) SetPartOpacity(index int, value, weight float64) {
	if weight == 1 {
		m.partOpacities[index] = value
		return
	}
	m.partOpacities[index] = m.partOpacities[index]*(1-weight) + value*weight
}

// AddPartOpacity accumulates value*weight onto the part opacity at index.
func (m *Model) AddPartOpacity(index int, value, weight float64) {
	m.partOpacities[index] += value * weight
}

// Opacity returns the model-level opacity.
func (m *Model) Opacity() float64 {
	return m.opacity
}

// SetOpacity sets the model-level opacity. Model opacity is authoritative:
// motion curves write it without fade blending.
func (m *Model) SetOpacity(value float64) {
	m.opacity = value
}

// SaveParameters snapshots the current parameter values. Callers layering
// several motion passes per frame snapshot before the first pass and restore
// between frames so each frame starts from a known state.
func (m *Model) SaveParameters() []float64 {
	return append([]float64(nil), m.parameterValues...)
}

// LoadParameters restores a snapshot taken by SaveParameters. Snapshots of
// the wrong length are ignored.
func (m *Model) LoadParameters(values []float64) {
	if len(values) != len(m.parameterValues) {
		return
	}
	copy(m.parameterValues, values)
}

// ResetParameters restores every parameter to its default value.
func (m *Model) ResetParameters() {
	copy(m.parameterValues, m.parameterDefault)
}
