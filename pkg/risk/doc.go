// Package risk implements the PURK, SCN1 and PURK+ pediatric kidney risk
// rules.
//
// The pipeline is made of four pure stages: unit normalization, the
// presentation score (PURK) and its group, the one-year creatinine nadir
// group (SCN1), and the fixed matrix combining both into PURK+. None of the
// functions in this package return errors; missing or non-finite readings
// resolve to "no evidence" or to the Undefined group.
package risk
