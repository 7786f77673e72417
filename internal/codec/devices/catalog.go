package devices

import "lorawan-transform-service/internal/domain/device"

func strptr(s string) *string { return &s }

// Catalog lists the hardware models this service ships codecs for, in the
// shape the codec_bindings seed expects. Every codec registered by
// NewRegistry appears exactly once.
func Catalog() []*device.CodecBinding {
	return []*device.CodecBinding{
		{Model: "Browan TBHH100", Codec: "browan_tbhh100", Description: strptr("Temperature and humidity sensor")},
		{Model: "Browan TBHV110", Codec: "browan_tbhv110", Description: strptr("Healthy home sensor, IAQ variant")},
		{Model: "Browan TBDW", Codec: "browan_tbdw", Description: strptr("Door and window sensor")},
		{Model: "Browan TBDW100", Codec: "browan_tbdw100", Description: strptr("Door and window sensor, alternate registration")},
		{Model: "Browan TBMS100", Codec: "browan_tbms100", Description: strptr("Motion sensor")},
		{Model: "Browan TBWL100", Codec: "browan_tbwl", Description: strptr("Water leak sensor")},
		{Model: "MerryIoT CO2 HT", Codec: "merryiot_co2", Description: strptr("CO2, temperature and humidity sensor")},
		{Model: "MerryIoT MS10", Codec: "merryiot_ms10", Description: strptr("Motion sensor")},
		{Model: "Milesight AM103", Codec: "milesight_am103", Description: strptr("Indoor ambience monitor")},
		{Model: "IMBuildings People Counter", Codec: "imbuildings_pc1", Description: strptr("Bidirectional people counter")},
		{Model: "Winext AN-102C", Codec: "winext_an102c", Description: strptr("Temperature and humidity alarm sensor")},
		{Model: "Smilio Action S", Codec: "smilio_a_s", Description: strptr("Multi-button action box")},
		{Model: "ATIM ACW/LW8", Codec: "atim_acw_lw8", Description: strptr("Status reporter")},
		{Model: "Netvox R716", Codec: "netvox_r716", Description: strptr("Wireless emergency button")},
	}
}
