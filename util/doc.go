// Package util provides small generic slice and map helpers.
package util
