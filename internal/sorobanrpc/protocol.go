package sorobanrpc

// Request and response schemas for the Soroban RPC JSON-RPC surface this
// client uses. Field names follow the wire protocol.

// Transaction status values reported by getTransaction.
const (
	TxStatusNotFound = "NOT_FOUND"
	TxStatusSuccess  = "SUCCESS"
	TxStatusFailed   = "FAILED"
)

// Submission status values reported by sendTransaction.
const (
	SendStatusPending = "PENDING"
	SendStatusError   = "ERROR"
)

type transactionRequest struct {
	Transaction string `json:"transaction"`
}

type hashRequest struct {
	Hash string `json:"hash"`
}

// HostFunctionResult is one per-function slice of a simulation response.
type HostFunctionResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

// SimulateResponse is the outcome of a dry-run execution. A non-empty Error
// means the contract rejected the call; the remaining fields are only
// meaningful on success.
type SimulateResponse struct {
	Error              string               `json:"error,omitempty"`
	TransactionDataXDR string               `json:"transactionData"`
	MinResourceFee     string               `json:"minResourceFee"`
	Results            []HostFunctionResult `json:"results"`
	LatestLedger       uint32               `json:"latestLedger"`
}

// SendResponse is the immediate result of submitting a signed envelope.
type SendResponse struct {
	Status         string `json:"status"`
	Hash           string `json:"hash"`
	ErrorResultXDR string `json:"errorResultXdr,omitempty"`
	LatestLedger   uint32 `json:"latestLedger"`
}

// GetTransactionResponse is the polled state of a submitted transaction.
type GetTransactionResponse struct {
	Status        string `json:"status"`
	EnvelopeXDR   string `json:"envelopeXdr,omitempty"`
	ResultXDR     string `json:"resultXdr,omitempty"`
	ResultMetaXDR string `json:"resultMetaXdr,omitempty"`
	Ledger        uint32 `json:"ledger,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// GetLatestLedgerResponse reports the current ledger head.
type GetLatestLedgerResponse struct {
	ID              string `json:"id"`
	Sequence        uint32 `json:"sequence"`
	ProtocolVersion uint32 `json:"protocolVersion"`
}

// EventFilter narrows getEvents to a contract set.
type EventFilter struct {
	Type        string   `json:"type,omitempty"`
	ContractIDs []string `json:"contractIds,omitempty"`
}

// Pagination bounds one getEvents page.
type Pagination struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  uint   `json:"limit,omitempty"`
}

// GetEventsRequest selects contract events from a start ledger forward.
type GetEventsRequest struct {
	StartLedger uint32        `json:"startLedger,omitempty"`
	Filters     []EventFilter `json:"filters,omitempty"`
	Pagination  *Pagination   `json:"pagination,omitempty"`
}

// EventInfo is one raw contract event.
type EventInfo struct {
	Type                     string   `json:"type"`
	Ledger                   uint32   `json:"ledger"`
	LedgerClosedAt           string   `json:"ledgerClosedAt"`
	ContractID               string   `json:"contractId"`
	ID                       string   `json:"id"`
	Topics                   []string `json:"topic"`
	Value                    string   `json:"value"`
	InSuccessfulContractCall bool     `json:"inSuccessfulContractCall"`
	TxHash                   string   `json:"txHash"`
}

// GetEventsResponse is one page of raw events.
type GetEventsResponse struct {
	Events       []EventInfo `json:"events"`
	LatestLedger uint32      `json:"latestLedger"`
	Cursor       string      `json:"cursor,omitempty"`
}

type getLedgerEntriesRequest struct {
	Keys []string `json:"keys"`
}

// LedgerEntryResult is one resolved ledger entry.
type LedgerEntryResult struct {
	KeyXDR             string `json:"key"`
	DataXDR            string `json:"xdr"`
	LastModifiedLedger uint32 `json:"lastModifiedLedgerSeq"`
}

type getLedgerEntriesResponse struct {
	Entries      []LedgerEntryResult `json:"entries"`
	LatestLedger uint32              `json:"latestLedger"`
}

// GetVersionInfoResponse describes the RPC server build.
type GetVersionInfoResponse struct {
	Version            string `json:"version"`
	CommitHash         string `json:"commitHash"`
	BuildTimestamp     string `json:"buildTimestamp"`
	CaptiveCoreVersion string `json:"captiveCoreVersion"`
	ProtocolVersion    uint32 `json:"protocolVersion"`
}
