// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package ms5803 controls a TE Connectivity MS5803-14BA pressure and
// temperature sensor over I²C.
//
// The device has no data-ready flag. A conversion is started with a command
// byte, the driver waits the worst case conversion time of the selected
// oversampling rate (OSR) and then reads the 24-bit ADC result. Raw counts
// are turned into calibrated values with the second order fixed-point
// algorithm from the datasheet, using the six factory calibration words
// stored in PROM.
//
// Temperatures are reported in hundredths of a degree Celsius and pressures
// in tenths of a millibar before any unit conversion.
//
// # Datasheet
//
// https://www.te.com/commerce/DocumentDelivery/DDEController?Action=showdoc&DocId=Data+Sheet%7FMS5803-14BA%7FB3%7Fpdf%7FEnglish%7FENG_DS_MS5803-14BA_B3.pdf%7FCAT-BLPS0013
package ms5803
