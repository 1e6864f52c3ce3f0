// Command liblp builds the c-shared library exposing the lp_* ABI:
//
//	go build -buildmode=c-shared -o libllamapanama.so ./cmd/liblp
//
// The generated header declares lp_model_t and lp_context_t as opaque
// uintptr_t handles and lp_inference_stats as a plain struct. The library
// reads its configuration from the file named by LLAMAPANAMA_CONFIG on first
// use.
package main

func main() {}
