package model

// Grade is the letter grade scale shared by the quality validator, the
// rule-based estimator, and the model predictor. A+ is best.
type Grade string

const (
	GradeAPlus   Grade = "A+"
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeF       Grade = "F"
	GradeUnknown Grade = ""
)

// gradeOrder holds the ordinal position of each grade, best first.
var gradeOrder = map[Grade]float64{
	GradeAPlus: 0,
	GradeA:     1,
	GradeB:     2,
	GradeC:     3,
	GradeD:     4,
	GradeF:     5,
}

var gradesByOrdinal = []Grade{GradeAPlus, GradeA, GradeB, GradeC, GradeD, GradeF}

// Ordinal returns the grade's position on the ordinal scale (0 = A+) and
// whether the grade is a known letter.
func (g Grade) Ordinal() (float64, bool) {
	ord, ok := gradeOrder[g]
	return ord, ok
}

// GradeFromOrdinal maps a (possibly fractional) ordinal back to the
// nearest letter grade, clamping out-of-range values.
func GradeFromOrdinal(ord float64) Grade {
	idx := int(ord + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(gradesByOrdinal) {
		idx = len(gradesByOrdinal) - 1
	}
	return gradesByOrdinal[idx]
}
