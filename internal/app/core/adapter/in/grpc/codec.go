package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// decodeStruct 透過 JSON 把 Struct 轉成 DTO
// decimal 欄位可以是 number 或 string
func decodeStruct(in *structpb.Struct, out any) error {
	if in == nil {
		return fmt.Errorf("empty request")
	}
	data, err := in.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed request: %w", err)
	}
	return nil
}

// encodeStruct 透過 JSON 把 DTO 轉成 Struct
// decimal 會輸出為 string，避免 float64 失去精度
func encodeStruct(in any) (*structpb.Struct, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}
