// internal/infrastructure/starknet/client.go
package starknet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/monitoring"
)

// Call describes one contract invocation. EntryPoint carries the
// human-readable name; the selector is derived when the call is sent over
// RPC, while wallet-bound batches keep the name as-is.
type Call struct {
	ContractAddress string   `json:"contract_address"`
	EntryPoint      string   `json:"entrypoint"`
	Calldata        []string `json:"calldata"`
}

// Receipt is the subset of a transaction receipt the storefront cares about.
type Receipt struct {
	TransactionHash string `json:"transaction_hash"`
	ExecutionStatus string `json:"execution_status"`
	FinalityStatus  string `json:"finality_status"`
	RevertReason    string `json:"revert_reason,omitempty"`
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r.ExecutionStatus == "SUCCEEDED"
}

// ErrReceiptNotFound is returned while a transaction is still unknown to the
// node; callers poll until the receipt materializes.
var ErrReceiptNotFound = errors.New("transaction receipt not found")

// Client is a thin JSON-RPC client for the two read paths the storefront
// needs: starknet_call and starknet_getTransactionReceipt. Signing and
// invoke submission stay in the user's wallet.
type Client struct {
	httpClient *http.Client
	rpcURL     string
}

// NewClient creates a new Starknet RPC client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rpcURL: cfg.Starknet.RPCURL,
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type functionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

// txnHashNotFound is the starknet JSON-RPC error code for an unknown
// transaction hash.
const txnHashNotFound = 29

// Call executes a read-only contract call against the latest block and
// returns the raw result felts.
func (c *Client) Call(ctx context.Context, call Call) ([]string, error) {
	params := map[string]interface{}{
		"request": functionCall{
			ContractAddress:    call.ContractAddress,
			EntryPointSelector: EntryPointSelector(call.EntryPoint),
			Calldata:           normalizeCalldata(call.Calldata),
		},
		"block_id": "latest",
	}

	result, err := c.do(ctx, "starknet_call", params)
	if err != nil {
		monitoring.StarknetCallsTotal.WithLabelValues(call.EntryPoint, "error").Inc()
		return nil, fmt.Errorf("starknet_call %s: %w", call.EntryPoint, err)
	}

	var words []string
	if err := json.Unmarshal(result, &words); err != nil {
		monitoring.StarknetCallsTotal.WithLabelValues(call.EntryPoint, "error").Inc()
		return nil, fmt.Errorf("starknet_call %s: malformed result: %w", call.EntryPoint, err)
	}
	monitoring.StarknetCallsTotal.WithLabelValues(call.EntryPoint, "success").Inc()
	return words, nil
}

// TransactionReceipt fetches the receipt for a submitted transaction.
// Returns ErrReceiptNotFound while the node has not seen the hash yet.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	result, err := c.do(ctx, "starknet_getTransactionReceipt", []string{txHash})
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			monitoring.StarknetCallsTotal.WithLabelValues("getTransactionReceipt", "not_found").Inc()
		} else {
			monitoring.StarknetCallsTotal.WithLabelValues("getTransactionReceipt", "error").Inc()
		}
		return nil, err
	}
	monitoring.StarknetCallsTotal.WithLabelValues("getTransactionReceipt", "success").Inc()

	var receipt Receipt
	if err := json.Unmarshal(result, &receipt); err != nil {
		return nil, fmt.Errorf("malformed receipt for %s: %w", txHash, err)
	}
	if receipt.TransactionHash == "" {
		receipt.TransactionHash = txHash
	}
	return &receipt, nil
}

func (c *Client) do(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build RPC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RPC endpoint returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read RPC response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(payload, &rpcResp); err != nil {
		return nil, fmt.Errorf("malformed RPC response: %w", err)
	}

	if rpcResp.Error != nil {
		if rpcResp.Error.Code == txnHashNotFound {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

// normalizeCalldata re-encodes every calldata word through the felt parser so
// decimal-encoded wallet payloads and hex-encoded words both reach the node
// in canonical hex form.
func normalizeCalldata(calldata []string) []string {
	out := make([]string, 0, len(calldata))
	for _, word := range calldata {
		if value, err := ParseFelt(word); err == nil {
			out = append(out, value.Hex())
		} else {
			out = append(out, word)
		}
	}
	return out
}
