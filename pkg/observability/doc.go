// Package observability provides dispatch observers that forward machine
// transitions to logs and combine several observers into one.
package observability
