package handler

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"lorawan-transform-service/internal/domain/device"
	"lorawan-transform-service/internal/domain/enrichment"
	"lorawan-transform-service/internal/domain/uplink"
)

type DeviceResponse struct {
	DevEUI         string     `json:"deveui"`
	Name           *string    `json:"name"`
	CodecBindingID *int       `json:"codec_binding_id"`
	LastGateway    *string    `json:"last_gateway"`
	LifecycleState string     `json:"lifecycle_state"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	AssignedAt     time.Time  `json:"assigned_at"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
}

type CodecBindingResponse struct {
	ID          int       `json:"id"`
	Model       string    `json:"model"`
	Description *string   `json:"description"`
	Codec       string    `json:"codec"`
	CreatedAt   time.Time `json:"created_at"`
}

type UplinkResponse struct {
	UplinkUUID uuid.UUID      `json:"uplink_uuid"`
	DevEUI     string         `json:"deveui"`
	ReceivedAt time.Time      `json:"received_at"`
	FPort      *int           `json:"fport"`
	PayloadHex *string        `json:"payload_hex"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Source     string         `json:"source"`
	GatewayEUI *string        `json:"gateway_eui"`
	RSSI       *float64       `json:"rssi"`
	SNR        *float64       `json:"snr"`
	InsertedAt time.Time      `json:"inserted_at"`
}

type ReadingResponse struct {
	UplinkUUID uuid.UUID      `json:"uplink_uuid"`
	DevEUI     string         `json:"deveui"`
	Fields     map[string]any `json:"fields"`
	DecodedAt  time.Time      `json:"decoded_at"`
}

type TrailEntryResponse struct {
	Step      string    `json:"step"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type StateCountResponse struct {
	Step   string `json:"step"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func ToDeviceResponse(ctx *device.Context) *DeviceResponse {
	if ctx == nil {
		return nil
	}
	return &DeviceResponse{
		DevEUI:         ctx.DevEUI,
		Name:           ctx.Name,
		CodecBindingID: ctx.CodecBindingID,
		LastGateway:    ctx.LastGateway,
		LifecycleState: string(ctx.LifecycleState),
		CreatedAt:      ctx.CreatedAt,
		UpdatedAt:      ctx.UpdatedAt,
		AssignedAt:     ctx.AssignedAt,
		ArchivedAt:     ctx.ArchivedAt,
	}
}

func ToDeviceResponses(contexts []*device.Context) []*DeviceResponse {
	out := make([]*DeviceResponse, 0, len(contexts))
	for _, ctx := range contexts {
		out = append(out, ToDeviceResponse(ctx))
	}
	return out
}

func ToCodecBindingResponse(b *device.CodecBinding) *CodecBindingResponse {
	if b == nil {
		return nil
	}
	return &CodecBindingResponse{
		ID:          b.ID,
		Model:       b.Model,
		Description: b.Description,
		Codec:       b.Codec,
		CreatedAt:   b.CreatedAt,
	}
}

func ToCodecBindingResponses(bindings []*device.CodecBinding) []*CodecBindingResponse {
	out := make([]*CodecBindingResponse, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, ToCodecBindingResponse(b))
	}
	return out
}

func ToUplinkResponse(up *uplink.Uplink) *UplinkResponse {
	if up == nil {
		return nil
	}
	var payloadHex *string
	if up.Payload != nil {
		h := hex.EncodeToString(up.Payload)
		payloadHex = &h
	}
	return &UplinkResponse{
		UplinkUUID: up.UplinkUUID,
		DevEUI:     up.DevEUI,
		ReceivedAt: up.ReceivedAt,
		FPort:      up.FPort,
		PayloadHex: payloadHex,
		Metadata:   up.Metadata,
		Source:     up.Source,
		GatewayEUI: up.GatewayEUI,
		RSSI:       up.RSSI,
		SNR:        up.SNR,
		InsertedAt: up.InsertedAt,
	}
}

func ToReadingResponse(r *uplink.Reading) *ReadingResponse {
	if r == nil {
		return nil
	}
	return &ReadingResponse{
		UplinkUUID: r.UplinkUUID,
		DevEUI:     r.DevEUI,
		Fields:     r.Fields,
		DecodedAt:  r.DecodedAt,
	}
}

func ToTrailResponse(entries []*enrichment.Entry) []*TrailEntryResponse {
	out := make([]*TrailEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &TrailEntryResponse{
			Step:      e.Step,
			Status:    e.Status,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func ToStateCountResponses(counts []*enrichment.StateCount) []*StateCountResponse {
	out := make([]*StateCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, &StateCountResponse{
			Step:   c.Step,
			Status: c.Status,
			Count:  c.Count,
		})
	}
	return out
}
