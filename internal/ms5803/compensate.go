// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

// Calibration holds the factory PROM words. Index 0 is unused so that C1 to
// C6 keep their datasheet numbering:
//
//	C1 pressure sensitivity                      SENS_T1
//	C2 pressure offset                           OFF_T1
//	C3 temperature coefficient of sensitivity    TCS
//	C4 temperature coefficient of offset         TCO
//	C5 reference temperature                     T_REF
//	C6 temperature coefficient of temperature    TEMPSENS
type Calibration [7]uint16

// Compensated is a calibrated reading in the device's fixed-point units.
type Compensated struct {
	Temperature int64 // 0.01 °C, 2007 = 20.07 °C
	Pressure    int64 // 0.1 mbar, 10005 = 1000.5 mbar
}

// Compensate applies the second order temperature compensation to one
// temperature and one pressure count taken in the same cycle.
//
// All intermediates are int64 and right shifts on negative values round
// toward negative infinity, as the datasheet formulas assume.
func Compensate(rawTemp, rawPressure uint32, c Calibration) Compensated {
	dT := int64(rawTemp) - (int64(c[5]) << 8)
	temp := 2000 + ((dT * int64(c[6])) >> 23)

	t2, off2, sens2 := secondOrder(temp, dT)

	off := (int64(c[2]) << 16) + ((int64(c[4]) * dT) >> 7) - off2
	sens := (int64(c[1]) << 15) + ((int64(c[3]) * dT) >> 8) - sens2

	return Compensated{
		Temperature: temp - t2,
		Pressure:    (((sens * int64(rawPressure)) >> 21) - off) >> 15,
	}
}

// secondOrder returns the T2, OFF2 and SENS2 corrections for a first order
// temperature. Both thresholds are strict.
func secondOrder(temp, dT int64) (t2, off2, sens2 int64) {
	d := temp - 2000
	if temp >= 2000 {
		return (7 * dT * dT) >> 37, (d * d) >> 4, 0
	}

	t2 = 3 * ((dT * dT) >> 33)
	off2 = (3 * d * d) >> 1
	sens2 = (5 * d * d) >> 3

	// Below -15 °C.
	if temp < -1500 {
		l := temp + 1500
		off2 += 7 * l * l
		// TODO: published MS5803-14BA datasheet revisions disagree on this
		// factor; confirm against the part's own revision before changing it.
		sens2 += (l * l) << 2
	}
	return t2, off2, sens2
}
