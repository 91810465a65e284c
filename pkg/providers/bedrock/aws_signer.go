package bedrock

import (
	"net/http"

	"github.com/haloforge/aikit/pkg/internal/sigv4"
)

const bedrockServiceName = "bedrock"

// AWSSigner handles AWS Signature V4 signing for Bedrock requests.
type AWSSigner struct {
	signer *sigv4.Signer
}

// NewAWSSigner creates a new AWS signer for the given credentials and region.
func NewAWSSigner(accessKeyID, secretAccessKey, sessionToken, region string) *AWSSigner {
	return &AWSSigner{
		signer: sigv4.NewSigner(accessKeyID, secretAccessKey, sessionToken, bedrockServiceName, region),
	}
}

// SignRequest signs an HTTP request with AWS Signature V4.
func (s *AWSSigner) SignRequest(req *http.Request, payload []byte) error {
	if req.Host == "" {
		req.Host = req.URL.Host
	}
	return s.signer.SignRequest(req, payload)
}
