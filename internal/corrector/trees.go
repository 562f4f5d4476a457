package corrector

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// BaseRoot builds the corrector tree applied first, during intra-pack
// merge: structural clean-up that every chip family needs regardless of
// whether its output is cross-checked against a CMSIS header. The rules
// below are representative of the much larger per-peripheral catalogue a
// real vendor pack accumulates over time; new peripheral families are
// added the same way, one glob-keyed entry at a time.
func BaseRoot() *Corrector {
	return New(nil, map[string]*Corrector{
		"GPIO*": New(RemovePeriphPrefix(), map[string]*Corrector{
			"MODER":  New(Modify("MODER", "port mode register", 0), nil),
			"OTYPER": New(Modify("OTYPER", "port output type register", 0), nil),
			"*_AF[RH]*": New(nil, map[string]*Corrector{
				"*": New(RemovePrefix(1), nil),
			}),
		}),
		"USART*": New(RemovePeriphPrefix(), map[string]*Corrector{
			"SR":  New(Modify("ISR", "interrupt and status register", 0), nil),
			"DR":  New(Modify("TDR", "transmit data register", 0), nil),
			"BRR": New(combine(Modify("BRR", "baud rate register", 0)), nil),
		}),
		"I2C*": New(RemovePeriphPrefix(), map[string]*Corrector{
			"SR1": New(Modify("ISR", "interrupt and status register 1", 0), nil),
			"SR2": New(Modify("ISR2", "interrupt and status register 2", 0), nil),
		}),
		"ADC*": New(RemovePeriphPrefix(), map[string]*Corrector{
			"SQR[1-5]": New(nil, map[string]*Corrector{
				"SQ*": New(CloneField("SQ", "SQ0"), nil),
			}),
		}),
		"TIM*": New(RemovePeriphPrefix(), map[string]*Corrector{
			"CCMR1": New(Modify("CCMR1", "capture/compare mode register 1", 0), nil),
			"CCMR2": New(Modify("CCMR2", "capture/compare mode register 2", 0), nil),
		}),
	})
}

// AdvancedRoot builds a separate tree of reshaping rules that depend on
// having already observed every chip variant's placement: array
// collapsing across repeated register instances. Its patterns target
// components as BaseRoot leaves them. engine.Run applies only the single
// corrector tree it is passed, and no caller in this module passes this
// one, so these rules do not run as part of a merge.
func AdvancedRoot() *Corrector {
	return New(nil, map[string]*Corrector{
		"GPIO*": New(nil, map[string]*Corrector{
			"AFR": New(CreateArray("AFR", "AFR", false), nil),
		}),
		"DMA*": New(nil, map[string]*Corrector{
			"*": New(nil, map[string]*Corrector{
				"CCR[1-8]": New(CreateArray("CCR", "CCR", false), nil),
				"CNDTR[1-8]": New(CreateArray("CNDTR", "CNDTR", false), nil),
				"CPAR[1-8]": New(CreateArray("CPAR", "CPAR", false), nil),
				"CMAR[1-8]": New(CreateArray("CMAR", "CMAR", false), nil),
			}),
		}),
		"ADC*": New(nil, map[string]*Corrector{
			"JDR[1-4]": New(CreateArray("JDR", "JDR", false), nil),
		}),
	})
}

// CmsisRoot builds the corrector tree applied when reconciling merged
// output against a vendor CMSIS header: CMSIS field names are always
// instance-qualified, so every register observed there needs its
// peripheral-instance prefix stripped before the two trees can be compared
// name-for-name.
func CmsisRoot(instancePrefixes ...string) *Corrector {
	children := make(map[string]*Corrector, len(instancePrefixes))
	for _, prefix := range instancePrefixes {
		children[prefix+"*"] = New(CmsisRemoveRegPrefix(prefix), nil)
	}
	return New(nil, children)
}
