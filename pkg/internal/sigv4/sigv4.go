// Package sigv4 signs HTTP requests for AWS services using Signature
// Version 4, via the aws-sdk-go-v2 signer rather than a hand-rolled
// implementation.
package sigv4

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// Signer signs requests for a single AWS service and region with a fixed
// set of credentials.
type Signer struct {
	credentials aws.Credentials
	service     string
	region      string
	signer      *v4.Signer
}

// NewSigner creates a Signer for the given service and region.
// sessionToken may be empty for long-lived IAM user credentials.
func NewSigner(accessKeyID, secretAccessKey, sessionToken, service, region string) *Signer {
	return &Signer{
		credentials: aws.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    sessionToken,
		},
		service: service,
		region:  region,
		signer:  v4.NewSigner(),
	}
}

// SignRequest signs req in place, computing the SHA-256 payload hash from
// body. req.Host must already be set to the target host.
func (s *Signer) SignRequest(req *http.Request, body []byte) error {
	hash := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(hash[:])

	return s.signer.SignHTTP(context.Background(), s.credentials, req, payloadHash, s.service, s.region, time.Now().UTC())
}
