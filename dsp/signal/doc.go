// Package signal provides excitation signals for physical string models.
//
// Excitations fill a caller-owned buffer with exactly one period of the
// initial string displacement. Noise is the classic Karplus-Strong pluck;
// the fixed shapes give brighter (Sawtooth) or duller (Triangle) attacks.
package signal
