// Package handlers agrupa os handlers HTTP da aplicação.
package handlers

import "net/http"

// ProductsHandler ainda não lista produtos; responde 200 sem corpo.
func ProductsHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
