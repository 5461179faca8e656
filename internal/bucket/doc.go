// Package bucket prepares the object storage bucket the MedML backend keeps
// uploaded images in: it creates the bucket, opens it for public reads and
// checks that it is reachable with the configured credentials.
package bucket
