// SPDX-License-Identifier: MIT

package main

import "image/color"

// shadeMultipliers are applied to a base color's RGB channels according to
// the low two bits of a map color index (spec §4.4).
var shadeMultipliers = [4]float64{0.71, 0.86, 1.00, 0.53}

// paletteBreakpoint pairs a minimum DataVersion with the base-color table
// that applies from that version onward. Tables are ordered oldest-first;
// DataVersions newer than the last breakpoint use the last table, and
// versions older than the first use the first (spec §9: "unknown future
// versions should fall back to the latest known palette").
type paletteBreakpoint struct {
	minDataVersion int
	baseColors     []color.RGBA
}

var paletteTable = []paletteBreakpoint{
	{minDataVersion: 0, baseColors: palette1_12},
	{minDataVersion: 1631, baseColors: palette1_13},    // 1.13
	{minDataVersion: 2566, baseColors: palette1_16},    // 1.16
	{minDataVersion: 2724, baseColors: palette1_17},    // 1.17
	{minDataVersion: 3105, baseColors: palette1_19},    // 1.19
	{minDataVersion: 3700, baseColors: palette1_20plus}, // 1.20.5+
}

// PaletteFor returns the base-color table to use for the given save
// DataVersion, falling back to the newest known table for versions newer
// than any breakpoint.
func PaletteFor(dataVersion int) []color.RGBA {
	chosen := paletteTable[0].baseColors
	for _, bp := range paletteTable {
		if dataVersion >= bp.minDataVersion {
			chosen = bp.baseColors
		}
	}
	return chosen
}

// ResolvePixel maps one map color-grid byte to an RGBA pixel, per spec
// §4.4: index 0 is transparent; otherwise the base color is
// palette[index>>2], shaded by shadeMultipliers[index&0x3].
func ResolvePixel(base []color.RGBA, index byte) color.RGBA {
	if index == 0 {
		return color.RGBA{}
	}
	baseIdx := int(index >> 2)
	if baseIdx >= len(base) {
		return color.RGBA{}
	}
	c := base[baseIdx]
	if c == (color.RGBA{}) {
		return color.RGBA{}
	}
	shade := shadeMultipliers[index&0x3]
	return color.RGBA{
		R: clampShade(c.R, shade),
		G: clampShade(c.G, shade),
		B: clampShade(c.B, shade),
		A: 255,
	}
}

func clampShade(channel byte, shade float64) byte {
	v := float64(channel) * shade
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

// palette1_12 is the base-color table for saves predating the Flattening
// (1.13). Index 0 is reserved (always transparent regardless of table).
var palette1_12 = []color.RGBA{
	0: {},
	1: rgb(127, 178, 56),   // grass
	2: rgb(247, 233, 163),  // sand
	3: rgb(199, 199, 199),  // wool / cobweb
	4: rgb(255, 0, 0),      // fire / lava
	5: rgb(160, 160, 255),  // ice / water surface
	6: rgb(167, 167, 167),  // metal
	7: rgb(0, 124, 0),      // plant / leaves
	8: rgb(255, 255, 255),  // snow
	9: rgb(164, 168, 184),  // clay
	10: rgb(151, 109, 77),  // dirt
	11: rgb(112, 112, 112), // stone
	12: rgb(64, 64, 255),   // water
	13: rgb(143, 119, 72),  // wood
	14: rgb(255, 252, 245), // quartz
	15: rgb(216, 127, 51),  // orange / adobe
	16: rgb(178, 76, 216),  // magenta
	17: rgb(102, 153, 216), // light blue
	18: rgb(229, 229, 51),  // yellow
	19: rgb(127, 204, 25),  // lime
	20: rgb(242, 127, 165), // pink
	21: rgb(76, 76, 76),    // gray
	22: rgb(153, 153, 153), // light gray
	23: rgb(76, 127, 153),  // cyan
	24: rgb(127, 63, 178),  // purple
	25: rgb(51, 76, 178),   // blue
	26: rgb(102, 76, 51),   // brown
	27: rgb(102, 127, 51),  // green
	28: rgb(153, 51, 51),   // red
	29: rgb(25, 25, 25),    // black
	30: rgb(250, 238, 77),  // gold
	31: rgb(92, 219, 213),  // diamond
	32: rgb(74, 128, 255),  // lapis
	33: rgb(0, 217, 58),    // emerald
	34: rgb(129, 86, 49),   // podzol / spruce wood
	35: rgb(112, 2, 0),     // nether / netherrack
}

var palette1_13 = append(append([]color.RGBA{}, palette1_12...),
	rgb(209, 177, 161), // 36 white terracotta
	rgb(159, 82, 36),   // 37 orange terracotta
	rgb(149, 87, 108),  // 38 magenta terracotta
	rgb(112, 108, 138),  // 39 light blue terracotta
	rgb(186, 133, 36),  // 40 yellow terracotta
	rgb(103, 117, 53),  // 41 lime terracotta
	rgb(160, 77, 78),   // 42 pink terracotta
	rgb(57, 41, 35),    // 43 gray terracotta
	rgb(135, 107, 98),  // 44 light gray terracotta
	rgb(87, 92, 92),    // 45 cyan terracotta
	rgb(122, 73, 88),   // 46 purple terracotta
	rgb(76, 62, 92),    // 47 blue terracotta
	rgb(76, 50, 35),    // 48 brown terracotta
	rgb(76, 82, 42),    // 49 green terracotta
	rgb(142, 60, 46),   // 50 red terracotta
	rgb(37, 22, 16),    // 51 black terracotta
)

var palette1_16 = append(append([]color.RGBA{}, palette1_13...),
	rgb(189, 48, 49),   // 52 crimson nylium
	rgb(148, 63, 97),   // 53 crimson stem
	rgb(92, 25, 29),    // 54 crimson hyphae
	rgb(22, 126, 134),  // 55 warped nylium
	rgb(58, 142, 140),  // 56 warped stem
	rgb(86, 44, 62),    // 57 warped hyphae
	rgb(20, 180, 133),  // 58 warped wart block
)

var palette1_17 = append(append([]color.RGBA{}, palette1_16...),
	rgb(100, 100, 100), // 59 deepslate
	rgb(216, 175, 147), // 60 raw iron
	rgb(127, 167, 150), // 61 glow lichen
)

var palette1_19 = append(append([]color.RGBA{}, palette1_17...),
	rgb(151, 109, 77),  // 62 mud
	rgb(186, 133, 107), // 63 mangrove roots (last entry: the table has 64)
)

var palette1_20plus = append(append([]color.RGBA{}, palette1_19...))
