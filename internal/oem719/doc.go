// Package oem719 decodes the ASCII log messages emitted by NovAtel
// OEM719-class receivers that this tool understands: the abbreviated-ASCII
// logs BESTXYZA, TIMEA, PSRDOPA and HWMONITORA, and the NMEA GPGSV sentence.
//
// Decoders are pure: given a timestamp and the raw line(s) they either
// produce an ordered field row or report that the line is not theirs.
// Checksums are not verified.
package oem719
