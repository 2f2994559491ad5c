package auth

import (
	"errors"
	"testing"
)

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		clientID  string
		wantToken string
		wantErr   error
	}{
		{name: "bare token", token: "t6v8z82dmym8zz69tej4atolibdcr7", clientID: "qou2ulob7b2y1w6zc6qhahdj75653x", wantToken: "t6v8z82dmym8zz69tej4atolibdcr7"},
		{name: "oauth prefix", token: "oauth:t6v8z82dmym8zz69tej4atolibdcr7", clientID: "qou2ulob7b2y1w6zc6qhahdj75653x", wantToken: "t6v8z82dmym8zz69tej4atolibdcr7"},
		{name: "bearer prefix", token: "Bearer t6v8z82dmym8zz69tej4atolibdcr7 ", clientID: "qou2ulob7b2y1w6zc6qhahdj75653x", wantToken: "t6v8z82dmym8zz69tej4atolibdcr7"},
		{name: "missing token", token: "  ", clientID: "qou2ulob7b2y1w6zc6qhahdj75653x", wantErr: ErrMissingToken},
		{name: "missing client id", token: "t6v8z82dmym8zz69tej4atolibdcr7", clientID: "", wantErr: ErrMissingClientID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := NewCredentials(tt.token, tt.clientID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewCredentials() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCredentials() unexpected error: %v", err)
			}
			if got := creds.GetAuthHeaders()["Authorization"]; got != "Bearer "+tt.wantToken {
				t.Errorf("Authorization = %q, want %q", got, "Bearer "+tt.wantToken)
			}
		})
	}
}

func TestGetAuthHeaders(t *testing.T) {
	creds, err := NewCredentials("t6v8z82dmym8zz69tej4atolibdcr7", "qou2ulob7b2y1w6zc6qhahdj75653x")
	if err != nil {
		t.Fatalf("NewCredentials() unexpected error: %v", err)
	}

	headers := creds.GetAuthHeaders()
	if headers["Authorization"] != "Bearer t6v8z82dmym8zz69tej4atolibdcr7" {
		t.Errorf("Authorization = %q", headers["Authorization"])
	}
	if headers["Client-Id"] != "qou2ulob7b2y1w6zc6qhahdj75653x" {
		t.Errorf("Client-Id = %q", headers["Client-Id"])
	}
}
