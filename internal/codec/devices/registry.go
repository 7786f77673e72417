package devices

import (
	"lorawan-transform-service/internal/codec"
)

// NewRegistry builds the static model-name to codec table. The name set is
// kept in sync with the codec_bindings seed; browan_tbdw100 and browan_tbdw
// both appear because fleets were registered under either spelling.
func NewRegistry() *codec.Registry {
	r := codec.NewRegistry()

	r.Register("browan_tbhh100", BrowanTBHH100)
	r.Register("browan_tbhv110", BrowanTBHV110)
	r.Register("browan_tbdw", BrowanTBDW)
	r.Register("browan_tbdw100", BrowanTBDW)
	r.Register("browan_tbms100", BrowanTBMS100)
	r.Register("browan_tbwl", BrowanTBWL)

	r.Register("merryiot_co2", MerryIoTCO2)
	r.Register("merryiot_ms10", MerryIoTMS10)

	r.Register("milesight_am103", MilesightAM103)

	r.Register("imbuildings_pc1", IMBuildingsPC1)
	r.Register("winext_an102c", WinextAN102C)

	r.Register("smilio_a_s", SmilioAS)

	r.Register("atim_acw_lw8", ATIMACWLW8)
	r.Register("netvox_r716", NetvoxR716)

	return r
}
