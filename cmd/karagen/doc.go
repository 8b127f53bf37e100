// Command karagen is the CLI for the karaoke catalog ingestion pipeline.
package main
